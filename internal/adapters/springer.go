package adapters

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
)

// springerAdapter covers the Springer Nature Metadata API.
type springerAdapter struct {
	*restAPIKeyHeaderTemplate
}

func newSpringerAdapter(d Descriptor, rl *RateLimiter, logger *slog.Logger) *springerAdapter {
	return &springerAdapter{restAPIKeyHeaderTemplate: newRESTAPIKeyHeaderTemplate(d, rl, logger, "X-ApiKey")}
}

func (a *springerAdapter) Family() Family   { return FamilyGeneral }
func (a *springerAdapter) Available() bool  { return a.descriptor.APIKey != "" }
func (a *springerAdapter) Capabilities() map[Capability]bool { return map[Capability]bool{} }

type springerResponse struct {
	Records []struct {
		DOI             string `json:"doi"`
		Title           string `json:"title"`
		Abstract        string `json:"abstract"`
		PublicationName string `json:"publicationName"`
		PublicationDate string `json:"publicationDate"`
		Creators        []struct {
			Creator string `json:"creator"`
		} `json:"creators"`
		URL []struct {
			Value string `json:"value"`
		} `json:"url"`
	} `json:"records"`
}

func (a *springerAdapter) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("p", strconv.Itoa(limit))
	body, err := a.get(ctx, "/meta/v2/json", q)
	if err != nil {
		return nil, err
	}
	var resp springerResponse
	if err := unmarshalJSON(body, &resp, a.name); err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(resp.Records))
	for _, r := range resp.Records {
		authors := make([]string, 0, len(r.Creators))
		for _, c := range r.Creators {
			authors = append(authors, c.Creator)
		}
		var year int
		if len(r.PublicationDate) >= 4 {
			year, _ = strconv.Atoi(r.PublicationDate[:4])
		}
		var link string
		if len(r.URL) > 0 {
			link = r.URL[0].Value
		}
		out = append(out, Candidate{
			DOI:         r.DOI,
			Title:       r.Title,
			Abstract:    r.Abstract,
			Authors:     authors,
			Year:        year,
			Journal:     r.PublicationName,
			Publisher:   "Springer",
			Access:      "unknown",
			ExternalURL: link,
		})
	}
	return out, nil
}

func (a *springerAdapter) SearchByPublisher(ctx context.Context, query, publisher string, limit int) ([]Candidate, error) {
	return a.Search(ctx, query, limit)
}

func (a *springerAdapter) GetCitations(ctx context.Context, identifier string) ([]Candidate, error) {
	return nil, nil
}

func (a *springerAdapter) GetReferences(ctx context.Context, identifier string) ([]Candidate, error) {
	return nil, nil
}

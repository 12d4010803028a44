package adapters

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
)

// coreAdapter covers CORE's aggregator API (open-access full-text index).
type coreAdapter struct {
	*restAPIKeyHeaderTemplate
}

func newCoreAdapter(d Descriptor, rl *RateLimiter, logger *slog.Logger) *coreAdapter {
	return &coreAdapter{restAPIKeyHeaderTemplate: newRESTAPIKeyHeaderTemplate(d, rl, logger, "Authorization")}
}

func (a *coreAdapter) Family() Family   { return FamilyCORE }
func (a *coreAdapter) Available() bool  { return a.descriptor.APIKey != "" }
func (a *coreAdapter) Capabilities() map[Capability]bool { return map[Capability]bool{} }

type coreResponse struct {
	Results []struct {
		DOI           string   `json:"doi"`
		Title         string   `json:"title"`
		Abstract      string   `json:"abstract"`
		YearPublished int      `json:"yearPublished"`
		DownloadURL   string   `json:"downloadUrl"`
		Publisher     string   `json:"publisher"`
		Authors       []struct {
			Name string `json:"name"`
		} `json:"authors"`
	} `json:"results"`
}

func (a *coreAdapter) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	body, err := a.get(ctx, "/search/works", q)
	if err != nil {
		return nil, err
	}
	var resp coreResponse
	if err := unmarshalJSON(body, &resp, a.name); err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		authors := make([]string, 0, len(r.Authors))
		for _, au := range r.Authors {
			authors = append(authors, au.Name)
		}
		access := "unknown"
		if r.DownloadURL != "" {
			access = "open"
		}
		out = append(out, Candidate{
			DOI:       r.DOI,
			Title:     r.Title,
			Abstract:  r.Abstract,
			Authors:   authors,
			Year:      r.YearPublished,
			Publisher: r.Publisher,
			Access:    access,
			PDFURL:    r.DownloadURL,
		})
	}
	return out, nil
}

func (a *coreAdapter) SearchByPublisher(ctx context.Context, query, publisher string, limit int) ([]Candidate, error) {
	return a.Search(ctx, query+" AND publisher:\""+publisher+"\"", limit)
}

func (a *coreAdapter) GetCitations(ctx context.Context, identifier string) ([]Candidate, error) {
	return nil, nil
}

func (a *coreAdapter) GetReferences(ctx context.Context, identifier string) ([]Candidate, error) {
	return nil, nil
}

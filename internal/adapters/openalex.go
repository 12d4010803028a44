package adapters

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
)

// openAlexAdapter covers the OpenAlex REST API, a free CrossRef-adjacent
// index with a citation graph, via the REST-query-param template.
type openAlexAdapter struct {
	*restQueryParamTemplate
}

func newOpenAlexAdapter(d Descriptor, rl *RateLimiter, logger *slog.Logger) *openAlexAdapter {
	return &openAlexAdapter{restQueryParamTemplate: newRESTQueryParamTemplate(d, rl, logger, "search")}
}

func (a *openAlexAdapter) Family() Family { return FamilyOpenAlex }

func (a *openAlexAdapter) Available() bool { return a.descriptor.BaseURL != "" }

func (a *openAlexAdapter) Capabilities() map[Capability]bool {
	return map[Capability]bool{CapabilityCitations: true}
}

type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID          string `json:"id"`
	DOI         string `json:"doi"`
	Title       string `json:"title"`
	PublicationYear int `json:"publication_year"`
	CitedByCount    int `json:"cited_by_count"`
	OpenAccess  struct {
		IsOA     bool   `json:"is_oa"`
		OAURL    string `json:"oa_url"`
	} `json:"open_access"`
	Authorships []struct {
		Author struct {
			DisplayName string `json:"display_name"`
		} `json:"author"`
	} `json:"authorships"`
	HostVenue struct {
		DisplayName string `json:"display_name"`
	} `json:"host_venue"`
	ReferencedWorks []string `json:"referenced_works"`
}

func (a *openAlexAdapter) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	q := url.Values{}
	q.Set("search", query)
	q.Set("per_page", strconv.Itoa(limit))
	if a.descriptor.ContactEmail != "" {
		q.Set("mailto", a.descriptor.ContactEmail)
	}
	body, err := a.get(ctx, q)
	if err != nil {
		return nil, err
	}
	var resp openAlexResponse
	if err := unmarshalJSON(body, &resp, a.name); err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(resp.Results))
	for _, w := range resp.Results {
		authors := make([]string, 0, len(w.Authorships))
		for _, a := range w.Authorships {
			authors = append(authors, a.Author.DisplayName)
		}
		access := "paywalled"
		if w.OpenAccess.IsOA {
			access = "open"
		}
		out = append(out, Candidate{
			DOI:           w.DOI,
			Title:         w.Title,
			Authors:       authors,
			Year:          w.PublicationYear,
			Journal:       w.HostVenue.DisplayName,
			CitationCount: w.CitedByCount,
			HasCitations:  true,
			Access:        access,
			PDFURL:        w.OpenAccess.OAURL,
			ExternalURL:   w.ID,
		})
	}
	return out, nil
}

func (a *openAlexAdapter) SearchByPublisher(ctx context.Context, query, publisher string, limit int) ([]Candidate, error) {
	return a.Search(ctx, query+" "+publisher, limit)
}

func (a *openAlexAdapter) GetCitations(ctx context.Context, identifier string) ([]Candidate, error) {
	return a.Search(ctx, "cites:"+identifier, 50)
}

func (a *openAlexAdapter) GetReferences(ctx context.Context, identifier string) ([]Candidate, error) {
	return nil, nil
}

package adapters

import (
	"context"
	"log/slog"
)

// serpAPIScholarAdapter wraps SerpApi's Google Scholar engine, a second
// Google-Scholar-class source alongside the Exa-backed adapter; registered
// under a distinct name so the orchestrator can fan out to both.
type serpAPIScholarAdapter struct {
	*webSearchTemplate
}

func newSerpAPIScholarAdapter(d Descriptor, rl *RateLimiter, logger *slog.Logger) *serpAPIScholarAdapter {
	return &serpAPIScholarAdapter{webSearchTemplate: newWebSearchTemplate(d, rl, logger)}
}

func (a *serpAPIScholarAdapter) Family() Family   { return FamilyGoogleScholar }
func (a *serpAPIScholarAdapter) Available() bool  { return a.descriptor.APIKey != "" }
func (a *serpAPIScholarAdapter) Capabilities() map[Capability]bool { return map[Capability]bool{} }

type serpAPIRequest struct {
	Engine string `json:"engine"`
	Query  string `json:"q"`
	APIKey string `json:"api_key"`
}

type serpAPIResponse struct {
	OrganicResults []struct {
		Title     string `json:"title"`
		Link      string `json:"link"`
		Snippet   string `json:"snippet"`
		Publication string `json:"publication_info"`
		InlineLinks struct {
			CitedBy struct {
				Total int `json:"total"`
			} `json:"cited_by"`
		} `json:"inline_links"`
	} `json:"organic_results"`
}

func (a *serpAPIScholarAdapter) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	body, err := a.post(ctx, "/search", serpAPIRequest{Engine: "google_scholar", Query: query, APIKey: a.descriptor.APIKey})
	if err != nil {
		return nil, err
	}
	var resp serpAPIResponse
	if err := unmarshalJSON(body, &resp, a.name); err != nil {
		return nil, err
	}
	if limit < len(resp.OrganicResults) {
		resp.OrganicResults = resp.OrganicResults[:limit]
	}
	out := make([]Candidate, 0, len(resp.OrganicResults))
	for _, r := range resp.OrganicResults {
		out = append(out, Candidate{
			Title:         r.Title,
			Abstract:      r.Snippet,
			CitationCount: r.InlineLinks.CitedBy.Total,
			HasCitations:  true,
			Access:        "unknown",
			ExternalURL:   r.Link,
		})
	}
	return out, nil
}

func (a *serpAPIScholarAdapter) SearchByPublisher(ctx context.Context, query, publisher string, limit int) ([]Candidate, error) {
	return a.Search(ctx, query+" "+publisher, limit)
}

func (a *serpAPIScholarAdapter) GetCitations(ctx context.Context, identifier string) ([]Candidate, error) {
	return nil, nil
}

func (a *serpAPIScholarAdapter) GetReferences(ctx context.Context, identifier string) ([]Candidate, error) {
	return nil, nil
}

package adapters

import (
	"context"
	"log/slog"
)

// tavilyAdapter wraps the Tavily web-search API as the general/alternative
// search adapter of spec §9's ninth phase, catching papers the structured
// academic sources miss (institutional repositories, conference pages).
type tavilyAdapter struct {
	*webSearchTemplate
}

func newTavilyAdapter(d Descriptor, rl *RateLimiter, logger *slog.Logger) *tavilyAdapter {
	return &tavilyAdapter{webSearchTemplate: newWebSearchTemplate(d, rl, logger)}
}

func (a *tavilyAdapter) Family() Family   { return FamilyGeneral }
func (a *tavilyAdapter) Available() bool  { return a.descriptor.APIKey != "" }
func (a *tavilyAdapter) Capabilities() map[Capability]bool { return map[Capability]bool{} }

type tavilySearchRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type tavilySearchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

func (a *tavilyAdapter) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	body, err := a.post(ctx, "/search", tavilySearchRequest{Query: query + " academic paper", MaxResults: limit, SearchDepth: "advanced"})
	if err != nil {
		return nil, err
	}
	var resp tavilySearchResponse
	if err := unmarshalJSON(body, &resp, a.name); err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, Candidate{
			Title:       r.Title,
			Abstract:    r.Content,
			Access:      "unknown",
			ExternalURL: r.URL,
		})
	}
	return out, nil
}

func (a *tavilyAdapter) SearchByPublisher(ctx context.Context, query, publisher string, limit int) ([]Candidate, error) {
	return a.Search(ctx, query+" "+publisher, limit)
}

func (a *tavilyAdapter) GetCitations(ctx context.Context, identifier string) ([]Candidate, error) {
	return nil, nil
}

func (a *tavilyAdapter) GetReferences(ctx context.Context, identifier string) ([]Candidate, error) {
	return nil, nil
}

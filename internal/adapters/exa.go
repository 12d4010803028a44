package adapters

import (
	"context"
	"log/slog"
	"strconv"
)

// exaAdapter wraps the Exa neural-search API as the Google-Scholar-class
// source of spec §9: there is no free Google Scholar API, so a web-search
// model pointed at scholarly content stands in for it, the same
// substitution the teacher repository's exa.Provider made.
type exaAdapter struct {
	*webSearchTemplate
}

func newExaAdapter(d Descriptor, rl *RateLimiter, logger *slog.Logger) *exaAdapter {
	return &exaAdapter{webSearchTemplate: newWebSearchTemplate(d, rl, logger)}
}

func (a *exaAdapter) Family() Family   { return FamilyGoogleScholar }
func (a *exaAdapter) Available() bool  { return a.descriptor.APIKey != "" }
func (a *exaAdapter) Capabilities() map[Capability]bool { return map[Capability]bool{} }

type exaSearchRequest struct {
	Query      string `json:"query"`
	NumResults int    `json:"numResults"`
	Category   string `json:"category"`
}

type exaSearchResponse struct {
	Results []struct {
		Title     string `json:"title"`
		URL       string `json:"url"`
		PublishedDate string `json:"publishedDate"`
		Author    string `json:"author"`
	} `json:"results"`
}

func (a *exaAdapter) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	body, err := a.post(ctx, "/search", exaSearchRequest{Query: query, NumResults: limit, Category: "research paper"})
	if err != nil {
		return nil, err
	}
	var resp exaSearchResponse
	if err := unmarshalJSON(body, &resp, a.name); err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		var year int
		if len(r.PublishedDate) >= 4 {
			year, _ = strconv.Atoi(r.PublishedDate[:4])
		}
		var authors []string
		if r.Author != "" {
			authors = []string{r.Author}
		}
		out = append(out, Candidate{
			Title:       r.Title,
			Authors:     authors,
			Year:        year,
			Access:      "unknown",
			ExternalURL: r.URL,
		})
	}
	return out, nil
}

func (a *exaAdapter) SearchByPublisher(ctx context.Context, query, publisher string, limit int) ([]Candidate, error) {
	return a.Search(ctx, query+" site:"+publisher, limit)
}

func (a *exaAdapter) GetCitations(ctx context.Context, identifier string) ([]Candidate, error) {
	return nil, nil
}

func (a *exaAdapter) GetReferences(ctx context.Context, identifier string) ([]Candidate, error) {
	return nil, nil
}

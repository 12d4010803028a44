package adapters

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
)

// europePMCAdapter covers Europe PMC's REST search, a life-sciences index
// overlapping PubMed with broader preprint coverage.
type europePMCAdapter struct {
	*restQueryParamTemplate
}

func newEuropePMCAdapter(d Descriptor, rl *RateLimiter, logger *slog.Logger) *europePMCAdapter {
	return &europePMCAdapter{restQueryParamTemplate: newRESTQueryParamTemplate(d, rl, logger, "query")}
}

func (a *europePMCAdapter) Family() Family { return FamilyEuropePMC }

func (a *europePMCAdapter) Available() bool { return a.descriptor.BaseURL != "" }

func (a *europePMCAdapter) Capabilities() map[Capability]bool {
	return map[Capability]bool{}
}

type europePMCResponse struct {
	ResultList struct {
		Result []europePMCResult `json:"result"`
	} `json:"resultList"`
}

type europePMCResult struct {
	ID          string `json:"id"`
	DOI         string `json:"doi"`
	PMID        string `json:"pmid"`
	Title       string `json:"title"`
	AuthorString string `json:"authorString"`
	JournalTitle string `json:"journalTitle"`
	PubYear     string `json:"pubYear"`
	IsOpenAccess string `json:"isOpenAccess"`
	CitedByCount int    `json:"citedByCount"`
}

func (a *europePMCAdapter) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("format", "json")
	q.Set("pageSize", strconv.Itoa(limit))
	body, err := a.get(ctx, q)
	if err != nil {
		return nil, err
	}
	var resp europePMCResponse
	if err := unmarshalJSON(body, &resp, a.name); err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(resp.ResultList.Result))
	for _, r := range resp.ResultList.Result {
		year, _ := strconv.Atoi(r.PubYear)
		access := "unknown"
		if r.IsOpenAccess == "Y" {
			access = "open"
		}
		out = append(out, Candidate{
			DOI:           r.DOI,
			PubMedID:      r.PMID,
			Title:         r.Title,
			Authors:       splitAuthorString(r.AuthorString),
			Year:          year,
			Journal:       r.JournalTitle,
			CitationCount: r.CitedByCount,
			HasCitations:  true,
			Access:        access,
		})
	}
	return out, nil
}

func (a *europePMCAdapter) SearchByPublisher(ctx context.Context, query, publisher string, limit int) ([]Candidate, error) {
	return a.Search(ctx, query+" AND "+publisher, limit)
}

func (a *europePMCAdapter) GetCitations(ctx context.Context, identifier string) ([]Candidate, error) {
	return nil, nil
}

func (a *europePMCAdapter) GetReferences(ctx context.Context, identifier string) ([]Candidate, error) {
	return nil, nil
}

func splitAuthorString(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

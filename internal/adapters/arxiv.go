package adapters

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// arxivFeed mirrors the teacher repository's internal/providers/arxiv.ArxivFeed,
// trimmed to the fields the Candidate projection needs.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
	Journal   string        `xml:"journal_ref"`
	DOI       string        `xml:"doi"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// arxivAdapter implements the arXiv preprint source via the REST-query-param
// template, grounded on internal/providers/arxiv.Provider's buildQuery /
// makeRequest / parseResponse trio.
type arxivAdapter struct {
	*restQueryParamTemplate
}

func newArxivAdapter(d Descriptor, rl *RateLimiter, logger *slog.Logger) *arxivAdapter {
	return &arxivAdapter{restQueryParamTemplate: newRESTQueryParamTemplate(d, rl, logger, "search_query")}
}

func (a *arxivAdapter) Family() Family { return FamilyArxiv }

func (a *arxivAdapter) Available() bool { return a.descriptor.BaseURL != "" }

func (a *arxivAdapter) Capabilities() map[Capability]bool {
	return map[Capability]bool{}
}

func (a *arxivAdapter) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	q := url.Values{}
	q.Set("search_query", fmt.Sprintf("(ti:%q OR abs:%q)", query, query))
	q.Set("start", "0")
	q.Set("max_results", strconv.Itoa(limit))
	q.Set("sortBy", "relevance")
	q.Set("sortOrder", "descending")
	body, err := a.get(ctx, q)
	if err != nil {
		return nil, err
	}
	return parseArxivFeed(body)
}

func (a *arxivAdapter) SearchByPublisher(ctx context.Context, query, publisher string, limit int) ([]Candidate, error) {
	return a.Search(ctx, query, limit)
}

func (a *arxivAdapter) GetCitations(ctx context.Context, identifier string) ([]Candidate, error) {
	return nil, nil
}

func (a *arxivAdapter) GetReferences(ctx context.Context, identifier string) ([]Candidate, error) {
	return nil, nil
}

func parseArxivFeed(body []byte) ([]Candidate, error) {
	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		id := extractArxivID(e.ID)
		if id == "" {
			continue
		}
		var year int
		if e.Published != "" {
			if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
				year = t.Year()
			}
		}
		authors := make([]string, 0, len(e.Authors))
		for _, au := range e.Authors {
			authors = append(authors, au.Name)
		}
		out = append(out, Candidate{
			ArxivID:     id,
			DOI:         e.DOI,
			Title:       strings.TrimSpace(e.Title),
			Abstract:    strings.TrimSpace(e.Summary),
			Authors:     authors,
			Year:        year,
			Journal:     e.Journal,
			Access:      "open",
			PDFURL:      "https://arxiv.org/pdf/" + id,
			ExternalURL: "https://arxiv.org/abs/" + id,
		})
	}
	return out, nil
}

// extractArxivID pulls the bare identifier out of an arXiv "id" URL/URN,
// e.g. "http://arxiv.org/abs/2301.01234v2" -> "2301.01234".
func extractArxivID(raw string) string {
	idx := strings.LastIndex(raw, "/abs/")
	if idx == -1 {
		return ""
	}
	id := raw[idx+len("/abs/"):]
	if v := strings.LastIndex(id, "v"); v > 0 {
		if _, err := strconv.Atoi(id[v+1:]); err == nil {
			id = id[:v]
		}
	}
	return id
}

package adapters

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
)

// semanticScholarAdapter uses the Semantic Scholar Graph API, which serves
// both full-text search and a citation/reference graph — so unlike most
// templates here it claims the citation capabilities too. Grounded on
// the teacher repository's internal/providers/exa.Provider for the JSON-over-
// REST-API-key-header shape, generalized to Semantic Scholar's field set.
type semanticScholarAdapter struct {
	*restAPIKeyHeaderTemplate
}

func newSemanticScholarAdapter(d Descriptor, rl *RateLimiter, logger *slog.Logger) *semanticScholarAdapter {
	return &semanticScholarAdapter{restAPIKeyHeaderTemplate: newRESTAPIKeyHeaderTemplate(d, rl, logger, "x-api-key")}
}

func (a *semanticScholarAdapter) Family() Family { return FamilySemanticScholar }

func (a *semanticScholarAdapter) Available() bool { return a.descriptor.BaseURL != "" }

func (a *semanticScholarAdapter) Capabilities() map[Capability]bool {
	return map[Capability]bool{
		CapabilityCitations:  true,
		CapabilityReferences: true,
	}
}

type ssPaper struct {
	PaperID      string `json:"paperId"`
	ExternalIDs  struct {
		DOI    string `json:"DOI"`
		PubMed string `json:"PubMed"`
		ArXiv  string `json:"ArXiv"`
	} `json:"externalIds"`
	Title        string   `json:"title"`
	Abstract     string   `json:"abstract"`
	Year         int      `json:"year"`
	Venue        string   `json:"venue"`
	CitationCount int     `json:"citationCount"`
	IsOpenAccess bool     `json:"isOpenAccess"`
	OpenAccessPDF *struct {
		URL string `json:"url"`
	} `json:"openAccessPdf"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

type ssSearchResponse struct {
	Data []ssPaper `json:"data"`
}

func ssCandidate(p ssPaper) Candidate {
	authors := make([]string, 0, len(p.Authors))
	for _, au := range p.Authors {
		authors = append(authors, au.Name)
	}
	access := "unknown"
	var pdf string
	if p.IsOpenAccess {
		access = "open"
		if p.OpenAccessPDF != nil {
			pdf = p.OpenAccessPDF.URL
		}
	}
	return Candidate{
		DOI:           p.ExternalIDs.DOI,
		PubMedID:      p.ExternalIDs.PubMed,
		ArxivID:       p.ExternalIDs.ArXiv,
		Title:         p.Title,
		Abstract:      p.Abstract,
		Authors:       authors,
		Year:          p.Year,
		Journal:       p.Venue,
		CitationCount: p.CitationCount,
		HasCitations:  true,
		Access:        access,
		PDFURL:        pdf,
	}
}

func (a *semanticScholarAdapter) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("fields", "title,abstract,year,venue,externalIds,citationCount,isOpenAccess,openAccessPdf,authors")
	body, err := a.get(ctx, "/paper/search", q)
	if err != nil {
		return nil, err
	}
	var resp ssSearchResponse
	if err := unmarshalJSON(body, &resp, a.name); err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(resp.Data))
	for _, p := range resp.Data {
		out = append(out, ssCandidate(p))
	}
	return out, nil
}

func (a *semanticScholarAdapter) SearchByPublisher(ctx context.Context, query, publisher string, limit int) ([]Candidate, error) {
	return a.Search(ctx, query+" "+publisher, limit)
}

func (a *semanticScholarAdapter) GetCitations(ctx context.Context, identifier string) ([]Candidate, error) {
	return a.citationGraph(ctx, identifier, "citations")
}

func (a *semanticScholarAdapter) GetReferences(ctx context.Context, identifier string) ([]Candidate, error) {
	return a.citationGraph(ctx, identifier, "references")
}

type ssGraphEntry struct {
	CitingPaper ssPaper `json:"citingPaper"`
	CitedPaper  ssPaper `json:"citedPaper"`
}

func (a *semanticScholarAdapter) citationGraph(ctx context.Context, identifier, edge string) ([]Candidate, error) {
	q := url.Values{}
	q.Set("fields", "title,abstract,year,venue,externalIds,citationCount,isOpenAccess,openAccessPdf,authors")
	body, err := a.get(ctx, "/paper/"+identifier+"/"+edge, q)
	if err != nil {
		return nil, err
	}
	var entries []ssGraphEntry
	if err := unmarshalJSON(body, &entries, a.name); err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(entries))
	for _, e := range entries {
		if edge == "citations" {
			out = append(out, ssCandidate(e.CitingPaper))
		} else {
			out = append(out, ssCandidate(e.CitedPaper))
		}
	}
	return out, nil
}

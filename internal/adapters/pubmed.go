package adapters

import (
	"context"
	"encoding/xml"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// pubmedAdapter wraps NCBI's two-step E-utilities flow (esearch for PMIDs,
// esummary for metadata) behind the Adapter contract. It embeds base
// directly rather than a single template, since a two-call protocol doesn't
// fit any of the five single-request templates cleanly; grounded on
// the teacher repository's arxiv provider for the do-then-parse-XML shape.
type pubmedAdapter struct {
	base
}

func newPubmedAdapter(d Descriptor, rl *RateLimiter, logger *slog.Logger) *pubmedAdapter {
	return &pubmedAdapter{base: newBase(d, rl, logger)}
}

func (a *pubmedAdapter) Family() Family { return FamilyPubMed }

func (a *pubmedAdapter) Available() bool { return a.descriptor.BaseURL != "" }

func (a *pubmedAdapter) Capabilities() map[Capability]bool {
	return map[Capability]bool{}
}

func (a *pubmedAdapter) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	ids, err := a.esearch(ctx, query, limit)
	if err != nil || len(ids) == 0 {
		return nil, err
	}
	return a.esummary(ctx, ids)
}

func (a *pubmedAdapter) SearchByPublisher(ctx context.Context, query, publisher string, limit int) ([]Candidate, error) {
	return a.Search(ctx, query+" AND "+publisher+"[ta]", limit)
}

func (a *pubmedAdapter) GetCitations(ctx context.Context, identifier string) ([]Candidate, error) {
	return nil, nil
}

func (a *pubmedAdapter) GetReferences(ctx context.Context, identifier string) ([]Candidate, error) {
	return nil, nil
}

func (a *pubmedAdapter) eutilsGet(ctx context.Context, path string, q url.Values) ([]byte, error) {
	q.Set("retmode", "xml")
	if a.descriptor.APIKey != "" {
		q.Set("api_key", a.descriptor.APIKey)
	}
	if a.descriptor.ContactEmail != "" {
		q.Set("email", a.descriptor.ContactEmail)
	}
	u := strings.TrimRight(a.descriptor.BaseURL, "/") + "/" + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return a.do(ctx, req)
}

type eSearchResult struct {
	IDList struct {
		IDs []string `xml:"Id"`
	} `xml:"IdList"`
}

func (a *pubmedAdapter) esearch(ctx context.Context, query string, limit int) ([]string, error) {
	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("term", query)
	q.Set("retmax", strconv.Itoa(limit))
	body, err := a.eutilsGet(ctx, "esearch.fcgi", q)
	if err != nil {
		return nil, err
	}
	var result eSearchResult
	if err := xml.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	return result.IDList.IDs, nil
}

type eSummaryResult struct {
	DocSums []struct {
		ID    string `xml:"Id"`
		Items []struct {
			Name string `xml:"Name,attr"`
			Type string `xml:"Type,attr"`
			Text string `xml:",chardata"`
		} `xml:"Item"`
	} `xml:"DocSum"`
}

func (a *pubmedAdapter) esummary(ctx context.Context, ids []string) ([]Candidate, error) {
	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("id", strings.Join(ids, ","))
	body, err := a.eutilsGet(ctx, "esummary.fcgi", q)
	if err != nil {
		return nil, err
	}
	var result eSummaryResult
	if err := xml.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(result.DocSums))
	for _, doc := range result.DocSums {
		c := Candidate{PubMedID: doc.ID, Access: "unknown"}
		for _, item := range doc.Items {
			switch item.Name {
			case "Title":
				c.Title = item.Text
			case "FullJournalName":
				c.Journal = item.Text
			case "PubDate":
				if len(item.Text) >= 4 {
					if y, err := strconv.Atoi(item.Text[:4]); err == nil {
						c.Year = y
					}
				}
			case "AuthorList":
				// author list items are nested and are not parsed, so PubMed candidates carry no authors
			}
		}
		out = append(out, c)
	}
	return out, nil
}

package adapters

import (
	"context"
	"log/slog"
	"net/url"
)

// biorxivAdapter covers bioRxiv/medRxiv's public API, which only exposes
// lookup-by-DOI and date-range listing rather than free-text search.
// Search therefore returns an empty result rather than erroring: the
// orchestrator treats "no candidates" from a source the same as "source
// found nothing", per spec §5's zero-adapter-coverage case.
type biorxivAdapter struct {
	*restQueryParamTemplate
}

func newBiorxivAdapter(d Descriptor, rl *RateLimiter, logger *slog.Logger) *biorxivAdapter {
	return &biorxivAdapter{restQueryParamTemplate: newRESTQueryParamTemplate(d, rl, logger, "")}
}

func (a *biorxivAdapter) Family() Family { return FamilyPreprint }

func (a *biorxivAdapter) Available() bool { return a.descriptor.BaseURL != "" }

func (a *biorxivAdapter) Capabilities() map[Capability]bool {
	return map[Capability]bool{}
}

type biorxivResponse struct {
	Collection []struct {
		DOI     string `json:"doi"`
		Title   string `json:"title"`
		Authors string `json:"authors"`
		Date    string `json:"date"`
		Abstract string `json:"abstract"`
		Category string `json:"category"`
	} `json:"collection"`
}

// Search is a no-op: bioRxiv's public API has no free-text endpoint.
func (a *biorxivAdapter) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	return nil, nil
}

func (a *biorxivAdapter) SearchByPublisher(ctx context.Context, query, publisher string, limit int) ([]Candidate, error) {
	return nil, nil
}

// GetByDOI fetches one bioRxiv record's metadata. Nothing in this
// repository calls it; the fan-out search phase does not use it.
func (a *biorxivAdapter) GetByDOI(ctx context.Context, doi string) (*Candidate, error) {
	body, err := a.get(ctx, url.Values{})
	if err != nil {
		return nil, err
	}
	var resp biorxivResponse
	if err := unmarshalJSON(body, &resp, a.name); err != nil {
		return nil, err
	}
	if len(resp.Collection) == 0 {
		return nil, nil
	}
	e := resp.Collection[0]
	return &Candidate{
		DOI:      e.DOI,
		Title:    e.Title,
		Abstract: e.Abstract,
		Authors:  splitAuthorString(e.Authors),
		Access:   "open",
	}, nil
}

func (a *biorxivAdapter) GetCitations(ctx context.Context, identifier string) ([]Candidate, error) {
	return nil, nil
}

func (a *biorxivAdapter) GetReferences(ctx context.Context, identifier string) ([]Candidate, error) {
	return nil, nil
}

// Package citation implements the Citation Network Builder of spec §4.8:
// expands a ranked seed set via each adapter's GetCitations/GetReferences
// capability, and separately mines common references across a record set.
//
// Grounded on the teacher repository's internal/providers' adapter-fan-out
// pattern (internal/adapters.Registry.ByFamily/All), generalized from a
// flat search fan-out into the citation-direction fetch spec §4.8 defines.
package citation

import (
	"context"
	"log/slog"
	"sort"

	"litfed-backend/internal/adapters"
	"litfed-backend/internal/models"
)

const (
	seedCap           = 20
	referenceCap      = 50
	citerCap          = 50
	commonRefMinCount = 3
	commonRefCap      = 50
)

// Fetcher resolves one (direction, identifier) pair to candidate records.
// The orchestrator supplies one backed by the adapter registry; tests can
// supply a stub.
type Fetcher func(ctx context.Context, direction Direction, identifier string) ([]adapters.Candidate, error)

type Direction string

const (
	DirectionCitedBy Direction = "cited_by"
	DirectionCiting  Direction = "citing"
)

type Builder struct {
	logger *slog.Logger
}

func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger}
}

// RegistryFetcher adapts a Registry into a Fetcher: it asks every
// registered adapter claiming the relevant capability and merges what
// comes back, since a citation graph for one record may be scattered
// across sources.
func RegistryFetcher(reg *adapters.Registry) Fetcher {
	return func(ctx context.Context, direction Direction, identifier string) ([]adapters.Candidate, error) {
		var out []adapters.Candidate
		for _, a := range reg.All() {
			caps := a.Capabilities()
			if direction == DirectionCitedBy && !caps[adapters.CapabilityCitations] {
				continue
			}
			if direction == DirectionCiting && !caps[adapters.CapabilityReferences] {
				continue
			}
			var (
				found []adapters.Candidate
				err   error
			)
			if direction == DirectionCitedBy {
				found, err = a.GetCitations(ctx, identifier)
			} else {
				found, err = a.GetReferences(ctx, identifier)
			}
			if err != nil {
				continue
			}
			out = append(out, found...)
		}
		return out, nil
	}
}

// Expand takes the 20 most-cited seeds carrying a DOI or PubMed ID,
// fetches both cited_by and citing for each via fetch, and returns newly
// discovered records (primary source "citation_network") not already
// present by DOI, capped at 50 references + 50 citers total.
func (b *Builder) Expand(ctx context.Context, seeds []models.Record, fetch Fetcher) []models.Record {
	known := make(map[string]bool, len(seeds))
	for _, s := range seeds {
		if s.DOI != "" {
			known[models.NormalizeDOI(s.DOI)] = true
		}
	}

	candidates := make([]models.Record, len(seeds))
	copy(candidates, seeds)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CitationCount > candidates[j].CitationCount
	})

	var topSeeds []models.Record
	for _, c := range candidates {
		if c.DOI == "" && c.PubMedID == "" {
			continue
		}
		topSeeds = append(topSeeds, c)
		if len(topSeeds) == seedCap {
			break
		}
	}

	var discovered []models.Record
	referencesAdded, citersAdded := 0, 0

	for _, seed := range topSeeds {
		identifier := seed.DOI
		if identifier == "" {
			identifier = seed.PubMedID
		}

		if citersAdded < citerCap {
			citedBy, err := fetch(ctx, DirectionCitedBy, identifier)
			if err != nil {
				b.logger.Warn("citation fetch failed", slog.String("direction", "cited_by"), slog.String("identifier", identifier), slog.Any("error", err))
			}
			for _, c := range citedBy {
				if citersAdded >= citerCap {
					break
				}
				if admitted := admit(c, known); admitted != nil {
					discovered = append(discovered, *admitted)
					citersAdded++
				}
			}
		}

		if referencesAdded < referenceCap {
			citing, err := fetch(ctx, DirectionCiting, identifier)
			if err != nil {
				b.logger.Warn("citation fetch failed", slog.String("direction", "citing"), slog.String("identifier", identifier), slog.Any("error", err))
			}
			for _, c := range citing {
				if referencesAdded >= referenceCap {
					break
				}
				if admitted := admit(c, known); admitted != nil {
					discovered = append(discovered, *admitted)
					referencesAdded++
				}
			}
		}
	}

	b.logger.Info("citation network expanded",
		slog.Int("seeds", len(topSeeds)),
		slog.Int("discovered", len(discovered)))

	return discovered
}

func admit(c adapters.Candidate, known map[string]bool) *models.Record {
	if c.DOI != "" {
		key := models.NormalizeDOI(c.DOI)
		if known[key] {
			return nil
		}
		known[key] = true
	} else if c.Title == "" {
		return nil
	}

	r := &models.Record{
		DOI: c.DOI, PubMedID: c.PubMedID, ArxivID: c.ArxivID,
		Title: c.Title, Abstract: c.Abstract, Authors: c.Authors,
		Year: c.Year, Journal: c.Journal, Publisher: c.Publisher,
		Keywords: c.Keywords, CitationCount: c.CitationCount,
		HasCitationCount: c.HasCitations, PDFURL: c.PDFURL,
	}
	switch c.Access {
	case "open":
		r.Access = models.AccessOpen
	case "paywalled":
		r.Access = models.AccessPaywalled
	default:
		r.Access = models.AccessUnknown
	}
	r.AddSource("citation_network")
	return r
}

// ReferenceFetcher resolves one record's reference list as DOIs, used by
// CommonReferences; a real adapter-backed implementation extracts DOIs
// from GetReferences results.
type ReferenceFetcher func(ctx context.Context, record *models.Record) []string

// CommonReferences mines DOIs cited by at least commonRefMinCount records
// in the set, bounded to the top 50 by count — often foundational works
// the initial search never surfaced directly (spec §4.8).
func (b *Builder) CommonReferences(ctx context.Context, records []models.Record, fetch ReferenceFetcher) []string {
	counts := make(map[string]int)
	order := make([]string, 0)

	for i := range records {
		refs := fetch(ctx, &records[i])
		seenInThisRecord := make(map[string]bool, len(refs))
		for _, doi := range refs {
			key := models.NormalizeDOI(doi)
			if key == "" || seenInThisRecord[key] {
				continue
			}
			seenInThisRecord[key] = true
			if counts[key] == 0 {
				order = append(order, key)
			}
			counts[key]++
		}
	}

	var qualifying []string
	for _, doi := range order {
		if counts[doi] >= commonRefMinCount {
			qualifying = append(qualifying, doi)
		}
	}
	sort.SliceStable(qualifying, func(i, j int) bool {
		return counts[qualifying[i]] > counts[qualifying[j]]
	})
	if len(qualifying) > commonRefCap {
		qualifying = qualifying[:commonRefCap]
	}
	return qualifying
}

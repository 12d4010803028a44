// Package adapters implements the Source Adapter contract of spec §4.1:
// a polymorphic capability wrapping one external scholarly-data provider.
//
// Grounded on the teacher repository's internal/providers package (SearchProvider
// interface, ProviderManager, per-provider config), generalized from "one
// bespoke struct per REST-ish provider" to five reusable templates plus a
// descriptor table, per spec §9's "heterogeneous adapter construction" note.
package adapters

import (
	"context"
	"log/slog"
)

// Capability flags a Source Adapter exposes beyond the mandatory Search.
type Capability string

const (
	CapabilitySearchByPublisher Capability = "search_by_publisher"
	CapabilityCitations         Capability = "citations"
	CapabilityReferences        Capability = "references"
)

// Adapter is the capability-typed value of spec §4.1. The orchestrator only
// ever calls through this interface; it never needs to know which concrete
// adapter it is talking to (spec §9).
type Adapter interface {
	Name() string
	Available() bool
	Capabilities() map[Capability]bool

	Search(ctx context.Context, query string, limit int) ([]Candidate, error)

	// SearchByPublisher is a server-side-filtered search. Adapters lacking
	// the capability fall back to Search per spec §4.1; implementations
	// that do support it set CapabilitySearchByPublisher.
	SearchByPublisher(ctx context.Context, query, publisher string, limit int) ([]Candidate, error)

	// GetCitations/GetReferences are used only by the citation network
	// builder (spec §4.8). Adapters without the capability return an
	// empty result and nil error.
	GetCitations(ctx context.Context, identifier string) ([]Candidate, error)
	GetReferences(ctx context.Context, identifier string) ([]Candidate, error)
}

// Candidate is the adapter-local projection of an external record, before
// it is admitted as a models.Record. Keeping this distinct from
// models.Record lets an adapter return partial/ambiguous data that the
// orchestrator validates at the boundary (spec §4.1 — invariant
// enforcement happens at the adapter boundary, not inside the adapter).
type Candidate struct {
	DOI           string
	PubMedID      string
	ArxivID       string
	Title         string
	Abstract      string
	Authors       []string
	Year          int
	Journal       string
	Publisher     string
	Keywords      []string
	Volume        string
	Issue         string
	Pages         string
	Language      string
	ExternalURL   string
	CitationCount int
	HasCitations  bool
	Access        string // "open", "paywalled", "unknown"
	PDFURL        string
}

// Family groups adapters that share rate-limit defaults per spec §4.1.
type Family string

const (
	FamilyPubMed          Family = "pubmed"
	FamilyArxiv           Family = "arxiv"
	FamilySemanticScholar Family = "semantic_scholar"
	FamilyCrossRef        Family = "crossref"
	FamilyOpenAlex        Family = "openalex"
	FamilyBASE            Family = "base"
	FamilyCORE            Family = "core"
	FamilyEuropePMC       Family = "europe_pmc"
	FamilyGoogleScholar   Family = "google_scholar"
	FamilyScopus          Family = "scopus"
	FamilyWebOfScience    Family = "wos"
	FamilyPreprint        Family = "preprint"
	FamilyGeneral         Family = "general"
)

// DefaultRatePerMinute is the spec §4.1 per-family rate-limit default
// table (requests/minute).
var DefaultRatePerMinute = map[Family]int{
	FamilyPubMed:          600,
	FamilyArxiv:           60,
	FamilySemanticScholar: 1200,
	FamilyCrossRef:        3000,
	FamilyOpenAlex:        3600,
	FamilyBASE:            3600,
	FamilyCORE:            3600,
	FamilyEuropePMC:       3600,
	FamilyGoogleScholar:   5,
	FamilyScopus:          540,
	FamilyWebOfScience:    300,
	FamilyPreprint:        3600,
	FamilyGeneral:         600,
}

// Descriptor is the per-source configuration table entry spec §9 calls
// for: base URL, auth style, rate limit, and whatever a template needs to
// turn a raw response into Candidates.
type Descriptor struct {
	Name        string
	Family      Family
	BaseURL     string
	APIKey      string
	ContactEmail string
	RatePerMinute int // overrides the family default when non-zero
	Timeout     int // seconds; 0 means the adapter default (spec §5: 30s)
	RequiresKey bool
	Enabled     bool
}

// Logger is a small convenience wrapper so every adapter logs with the
// same fields (teacher's slog usage in internal/providers/*).
func withAdapterLogger(base *slog.Logger, name string) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	return base.With(slog.String("adapter", name))
}

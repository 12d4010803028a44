// Package fulltext implements the Full-Text Resolver of spec §4.9: a
// priority chain that locates an open-access URL for a record without
// ever mutating the record directly — the orchestrator writes the result
// back once resolution completes.
//
// Grounded on the teacher repository's internal/providers/arxiv PDF-URL
// construction and its unpaywall-shaped provider config, generalized into
// the five-step priority chain spec §4.9 defines.
package fulltext

import (
	"context"
	"fmt"
	"log/slog"

	"litfed-backend/internal/models"
)

// Result is the outcome of resolving one record, per spec §4.9.
type Result struct {
	Found      bool
	URL        string
	AccessType models.AccessType
}

// PMCLookup resolves a PubMed ID to a PubMed Central full-text URL, or
// ("", false) if none exists.
type PMCLookup func(ctx context.Context, pubMedID string) (string, bool)

// UnpaywallLookup resolves a DOI to an open-access URL via Unpaywall, or
// ("", false) if none is on file.
type UnpaywallLookup func(ctx context.Context, doi string) (string, bool)

// PaywallBypassLookup is the optional, explicitly-configured fallback
// (spec §4.9 step 5); nil disables it entirely.
type PaywallBypassLookup func(ctx context.Context, doi string) (string, bool)

type Resolver struct {
	logger         *slog.Logger
	pmc            PMCLookup
	unpaywall      UnpaywallLookup
	paywallBypass  PaywallBypassLookup
	bypassEnabled  bool
}

// Option configures an optional resolution step.
type Option func(*Resolver)

func WithPMC(lookup PMCLookup) Option {
	return func(r *Resolver) { r.pmc = lookup }
}

func WithUnpaywall(lookup UnpaywallLookup) Option {
	return func(r *Resolver) { r.unpaywall = lookup }
}

// WithPaywallBypass wires the optional fallback and requires the caller
// to have already confirmed it is enabled by explicit configuration (spec
// §4.9); the resolver itself never decides this default.
func WithPaywallBypass(lookup PaywallBypassLookup, enabled bool) Option {
	return func(r *Resolver) {
		r.paywallBypass = lookup
		r.bypassEnabled = enabled
	}
}

func NewResolver(logger *slog.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Resolver{logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve walks spec §4.9's priority chain: existing PDF URL, arXiv PDF
// construction, PubMed Central, Unpaywall, then the optional bypass.
func (r *Resolver) Resolve(ctx context.Context, rec *models.Record) Result {
	if rec.PDFURL != "" {
		return Result{Found: true, URL: rec.PDFURL, AccessType: models.AccessOpen}
	}

	if rec.ArxivID != "" {
		url := fmt.Sprintf("https://arxiv.org/pdf/%s.pdf", models.NormalizeArxivID(rec.ArxivID))
		return Result{Found: true, URL: url, AccessType: models.AccessOpen}
	}

	if rec.PubMedID != "" && r.pmc != nil {
		if url, ok := r.pmc(ctx, rec.PubMedID); ok {
			return Result{Found: true, URL: url, AccessType: models.AccessOpen}
		}
	}

	if rec.DOI != "" && r.unpaywall != nil {
		if url, ok := r.unpaywall(ctx, rec.DOI); ok {
			return Result{Found: true, URL: url, AccessType: models.AccessOpen}
		}
	}

	if r.bypassEnabled && r.paywallBypass != nil && rec.DOI != "" {
		if url, ok := r.paywallBypass(ctx, rec.DOI); ok {
			r.logger.Warn("full text resolved via paywall bypass", slog.String("doi", rec.DOI))
			return Result{Found: true, URL: url, AccessType: models.AccessUnknown}
		}
	}

	return Result{Found: false, AccessType: models.AccessUnknown}
}

// ResolveAll runs Resolve over a batch and returns the outcome per record
// index; the caller (the orchestrator) writes outcomes back into the
// shared record slice.
func (r *Resolver) ResolveAll(ctx context.Context, records []models.Record) []Result {
	results := make([]Result, len(records))
	for i := range records {
		results[i] = r.Resolve(ctx, &records[i])
	}
	return results
}

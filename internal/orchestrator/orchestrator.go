package orchestrator

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"litfed-backend/internal/adapters"
	"litfed-backend/internal/citation"
	"litfed-backend/internal/dedup"
	"litfed-backend/internal/fulltext"
	"litfed-backend/internal/models"
	"litfed-backend/internal/query"
	"litfed-backend/internal/ranking"
	"litfed-backend/internal/reasoning"
	"litfed-backend/internal/reliability"
)

// Default timeouts from spec §5.
const (
	DefaultAdapterTimeout = 30 * time.Second
	DefaultPhaseDeadline  = 120 * time.Second
)

// Phase names, also used as ProgressEvent.Phase values.
const (
	PhaseAnalyzeQuery       = "analyze_query"
	PhasePriorityAcademic   = "priority_academic"
	PhaseGoogleScholarClass = "google_scholar_class"
	PhaseCitationDatabases  = "citation_databases"
	PhasePublisherFilter    = "publisher_filter"
	PhasePreprintServers    = "preprint_servers"
	PhaseCitationNetwork    = "citation_network"
	PhaseAlternativeSearch  = "alternative_search"
	PhaseVariationReissue   = "variation_reissue"
	PhaseDeduplicate        = "deduplicate"
	PhaseRank               = "rank"
	PhaseFullText           = "full_text"
	PhaseReasoning          = "reasoning"
)

// Adapter-name groupings per phase (spec §4.3). Grounded on the source
// taxonomy spec §9 names; a source absent from the registry (no
// credential configured) is silently skipped by fanOut.
var (
	priorityAcademicSources  = []string{"pubmed", "semantic_scholar", "crossref", "openalex", "europe_pmc"}
	googleScholarClassSources = []string{"google_scholar", "serpapi_scholar"}
	citationDatabaseSources  = []string{"scopus", "web_of_science", "dimensions", "lens"}
	publisherFilterSources   = []string{"springer", "ieee", "elsevier", "core"}
	preprintServerSources    = []string{"arxiv", "biorxiv"}
	alternativeSearchSources = []string{"general_web"}
	broadReissueSource       = "crossref"
)

// Orchestrator wires every pipeline stage into the spec §4.3 thirteen-phase
// search. Grounded on the teacher repository's internal/services/search_service.go
// top-level Search method, which sequences "normalize query -> call
// provider manager -> dedupe -> persist -> return" — generalized here into
// the full fan-out/dedupe/rank/reliability/reasoning pipeline.
type Orchestrator struct {
	registry   *adapters.Registry
	expander   *query.Expander
	dedup      *dedup.Deduplicator
	ranker     *ranking.Ranker
	reliab     *reliability.Scorer
	citations  *citation.Builder
	fulltext   *fulltext.Resolver
	reasoner   *reasoning.Reasoner

	workers       int
	adapterTimeout time.Duration
	phaseDeadline time.Duration
	globalTimeout time.Duration

	logger *slog.Logger
}

type Option func(*Orchestrator)

func WithWorkerCount(n int) Option          { return func(o *Orchestrator) { o.workers = n } }
func WithAdapterTimeout(d time.Duration) Option { return func(o *Orchestrator) { o.adapterTimeout = d } }
func WithPhaseDeadline(d time.Duration) Option  { return func(o *Orchestrator) { o.phaseDeadline = d } }
func WithGlobalTimeout(d time.Duration) Option  { return func(o *Orchestrator) { o.globalTimeout = d } }

func New(
	registry *adapters.Registry,
	expander *query.Expander,
	deduplicator *dedup.Deduplicator,
	ranker *ranking.Ranker,
	reliab *reliability.Scorer,
	citations *citation.Builder,
	ft *fulltext.Resolver,
	reasoner *reasoning.Reasoner,
	logger *slog.Logger,
	opts ...Option,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		registry: registry, expander: expander, dedup: deduplicator,
		ranker: ranker, reliab: reliab, citations: citations, fulltext: ft,
		reasoner: reasoner, logger: logger,
		workers: DefaultWorkerCount, adapterTimeout: DefaultAdapterTimeout,
		phaseDeadline: DefaultPhaseDeadline, globalTimeout: DefaultPhaseDeadline,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Search drives the thirteen-phase pipeline of spec §4.3 end to end.
func (o *Orchestrator) Search(ctx context.Context, rawQuery string, opts models.SearchOptions, onProgress models.ProgressFunc) (*models.ResearchResult, error) {
	if onProgress == nil {
		onProgress = func(models.ProgressEvent) {}
	}
	stats := models.NewResearchStatistics()
	stats.StartedAt = time.Now()

	globalCtx, cancel := context.WithTimeout(ctx, o.globalTimeout)
	defer cancel()

	p := newPool(o.workers)

	// Phase 1: analyze query.
	onProgress(models.ProgressEvent{Phase: PhaseAnalyzeQuery, Status: models.ProgressRunning})
	analysis := o.expander.Expand(rawQuery)
	onProgress(models.ProgressEvent{Phase: PhaseAnalyzeQuery, Status: models.ProgressComplete, Count: len(analysis.Variations)})

	if deadlineExceeded(globalCtx) {
		return o.partial(rawQuery, nil, analysis, stats, "global timeout before fan-out began"), nil
	}

	var records []models.Record
	nextIndex := 0
	admit := func(batch []adapters.Candidate, source string) {
		for _, c := range batch {
			r := candidateToRecord(c, source)
			if !r.HasIdentity() {
				continue
			}
			r.SetInsertionIndex(nextIndex)
			nextIndex++
			records = append(records, *r)
		}
	}

	runPhase := func(name string, sources []string, searchQuery string, limit int) {
		batches := o.fanOut(globalCtx, p, name, sources, searchQuery, limit, opts, onProgress)
		for src, batch := range batches {
			admit(batch, src)
			stats.PhaseCounts[name] += len(batch)
		}
	}

	maxPerSource := opts.MaxPerSource
	if maxPerSource <= 0 {
		maxPerSource = models.DefaultSearchOptions().MaxPerSource
	}

	// Phase 2: priority academic adapters.
	runPhase(PhasePriorityAcademic, priorityAcademicSources, rawQuery, maxPerSource)

	// Phase 3: Google-Scholar-class search.
	if !deadlineExceeded(globalCtx) {
		runPhase(PhaseGoogleScholarClass, googleScholarClassSources, rawQuery, maxPerSource)
	}

	// Phase 4: citation-database adapters.
	if !deadlineExceeded(globalCtx) {
		runPhase(PhaseCitationDatabases, citationDatabaseSources, rawQuery, maxPerSource)
	}

	// Phase 5: publisher-filter adapters.
	if !deadlineExceeded(globalCtx) {
		runPhase(PhasePublisherFilter, publisherFilterSources, rawQuery, maxPerSource)
	}

	// Phase 6: preprint-server adapters (skipped if the caller opted out).
	if !deadlineExceeded(globalCtx) && opts.IncludePreprints {
		runPhase(PhasePreprintServers, preprintServerSources, rawQuery, maxPerSource)
	}

	// Phase 7: citation network expansion from top-cited seeds.
	if !deadlineExceeded(globalCtx) && opts.ExpandCitations && o.citations != nil {
		onProgress(models.ProgressEvent{Phase: PhaseCitationNetwork, Status: models.ProgressRunning})
		fetch := citation.RegistryFetcher(o.registry)
		discovered := o.citations.Expand(globalCtx, records, fetch)
		for i := range discovered {
			discovered[i].SetInsertionIndex(nextIndex)
			nextIndex++
		}
		records = append(records, discovered...)
		stats.PhaseCounts[PhaseCitationNetwork] = len(discovered)
		onProgress(models.ProgressEvent{Phase: PhaseCitationNetwork, Status: models.ProgressComplete, Count: len(discovered)})
	}

	// Phase 8: alternative/general search adapters.
	if !deadlineExceeded(globalCtx) {
		runPhase(PhaseAlternativeSearch, alternativeSearchSources, rawQuery, maxPerSource)
	}

	// Phase 9: re-issue the top few variations against one broad adapter.
	if !deadlineExceeded(globalCtx) {
		topVariations := analysis.Variations
		if len(topVariations) > 3 {
			topVariations = topVariations[1:4] // skip the original, already searched
		} else if len(topVariations) > 1 {
			topVariations = topVariations[1:]
		} else {
			topVariations = nil
		}
		for _, v := range topVariations {
			runPhase(PhaseVariationReissue, []string{broadReissueSource}, v, maxPerSource)
		}
	}

	stats.RawRecordCount = len(records)
	stats.SourcesQueried = sourcesQueried(records)

	// Phase 10: deduplicate.
	onProgress(models.ProgressEvent{Phase: PhaseDeduplicate, Status: models.ProgressRunning, Count: len(records)})
	unique, removed := o.dedup.Fold(records)
	stats.UniqueRecordCount = len(unique)
	stats.DuplicatesRemoved = removed
	onProgress(models.ProgressEvent{Phase: PhaseDeduplicate, Status: models.ProgressComplete, Count: len(unique)})

	// Reliability scoring runs alongside ranking: both are pure functions
	// of the deduplicated set and neither depends on the other's output.
	o.reliab.Score(unique, nil)
	if opts.MinReliability > 0 {
		unique = filterByReliability(unique, opts.MinReliability)
	}

	// Phase 11: rank by relevance.
	onProgress(models.ProgressEvent{Phase: PhaseRank, Status: models.ProgressRunning})
	o.ranker.Rank(unique, analysis)
	onProgress(models.ProgressEvent{Phase: PhaseRank, Status: models.ProgressComplete, Count: len(unique)})

	// Phase 12: enrich records with open-access URLs.
	if !deadlineExceeded(globalCtx) && o.fulltext != nil {
		onProgress(models.ProgressEvent{Phase: PhaseFullText, Status: models.ProgressRunning})
		results := o.fulltext.ResolveAll(globalCtx, unique)
		for i, res := range results {
			if res.Found {
				unique[i].PDFURL = res.URL
				if unique[i].Access == models.AccessUnknown {
					unique[i].Access = res.AccessType
				}
			}
		}
		onProgress(models.ProgressEvent{Phase: PhaseFullText, Status: models.ProgressComplete})
	}

	// Phase 13: multi-turn reasoner.
	var reasoningResult models.ReasoningResult
	if !deadlineExceeded(globalCtx) && o.reasoner != nil {
		onProgress(models.ProgressEvent{Phase: PhaseReasoning, Status: models.ProgressRunning})
		reasoningResult = o.reasoner.Run(unique, analysis)
		onProgress(models.ProgressEvent{Phase: PhaseReasoning, Status: models.ProgressComplete})
	}

	stats.EndedAt = time.Now()
	stats.Partial = deadlineExceeded(globalCtx)
	if stats.Partial {
		stats.CutoffReason = "global search deadline exceeded"
	}

	return &models.ResearchResult{
		Query:      rawQuery,
		Records:    unique,
		Reasoning:  reasoningResult,
		Statistics: *stats,
	}, nil
}

// fanOut runs one query across a set of adapter names with bounded
// concurrency, emitting running/complete/error progress events per
// adapter. An adapter timeout or error yields an empty result for that
// adapter; it is never fatal to the phase (spec §4.3).
func (o *Orchestrator) fanOut(ctx context.Context, p *pool, phase string, sourceNames []string, searchQuery string, limit int, opts models.SearchOptions, onProgress models.ProgressFunc) map[string][]adapters.Candidate {
	onProgress(models.ProgressEvent{Phase: phase, Status: models.ProgressRunning})

	type target struct {
		name    string
		adapter adapters.Adapter
	}
	var targets []target
	for _, name := range sourceNames {
		if len(opts.Sources) > 0 && !contains(opts.Sources, name) {
			continue
		}
		a, ok := o.registry.Get(name)
		if !ok {
			continue
		}
		targets = append(targets, target{name: name, adapter: a})
	}

	phaseCtx, cancel := context.WithTimeout(ctx, o.phaseDeadline)
	defer cancel()

	type outcome struct {
		name    string
		records []adapters.Candidate
	}

	results := runPool(phaseCtx, p, targets, func(callCtx context.Context, t target) outcome {
		onProgress(models.ProgressEvent{Phase: phase, Source: t.name, Status: models.ProgressRunning})

		reqCtx, reqCancel := context.WithTimeout(callCtx, o.adapterTimeout)
		defer reqCancel()

		found, err := t.adapter.Search(reqCtx, searchQuery, limit)
		if err != nil {
			onProgress(models.ProgressEvent{Phase: phase, Source: t.name, Status: models.ProgressError, Message: err.Error()})
			return outcome{name: t.name}
		}
		onProgress(models.ProgressEvent{Phase: phase, Source: t.name, Status: models.ProgressComplete, Count: len(found)})
		return outcome{name: t.name, records: found}
	})

	out := make(map[string][]adapters.Candidate, len(results))
	total := 0
	for _, r := range results {
		if r.name == "" {
			continue
		}
		out[r.name] = r.records
		total += len(r.records)
	}
	onProgress(models.ProgressEvent{Phase: phase, Status: models.ProgressComplete, Count: total})
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func candidateToRecord(c adapters.Candidate, source string) *models.Record {
	r := &models.Record{
		DOI: c.DOI, PubMedID: c.PubMedID, ArxivID: c.ArxivID,
		Title: c.Title, Abstract: c.Abstract, Authors: c.Authors,
		Year: c.Year, Journal: c.Journal, Publisher: c.Publisher,
		Keywords: c.Keywords, Volume: c.Volume, Issue: c.Issue,
		Pages: c.Pages, Language: c.Language, ExternalURL: c.ExternalURL,
		CitationCount: c.CitationCount, HasCitationCount: c.HasCitations,
		PDFURL: c.PDFURL,
	}
	switch c.Access {
	case "open":
		r.Access = models.AccessOpen
	case "paywalled":
		r.Access = models.AccessPaywalled
	default:
		r.Access = models.AccessUnknown
	}
	r.AddSource(source)
	return r
}

func sourcesQueried(records []models.Record) []string {
	set := make(map[string]bool)
	for _, r := range records {
		for s := range r.SourcesFoundIn {
			set[s] = true
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func filterByReliability(records []models.Record, min float64) []models.Record {
	out := records[:0]
	for _, r := range records {
		if r.Reliability >= min {
			out = append(out, r)
		}
	}
	return out
}

func deadlineExceeded(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func (o *Orchestrator) partial(rawQuery string, records []models.Record, analysis models.QueryAnalysis, stats *models.ResearchStatistics, reason string) *models.ResearchResult {
	stats.EndedAt = time.Now()
	stats.Partial = true
	stats.CutoffReason = reason
	return &models.ResearchResult{Query: rawQuery, Records: records, Statistics: *stats}
}

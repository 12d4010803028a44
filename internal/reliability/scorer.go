// Package reliability implements the additive reliability scorer of spec
// §4.6: peer-review status, journal reputation, citation impact,
// cross-source verification and recency, combined into a 0-1 score and
// banded into green/yellow/red.
//
// Independent from internal/ranking's relevance score by design (spec
// §4.6): a highly relevant record can still be unreliable, and the two
// scores are surfaced separately so a caller can filter on either axis.
package reliability

import (
	"log/slog"

	"litfed-backend/internal/models"
)

// peerReviewedSources are adapters backed by editorially peer-reviewed
// indexes; preprintSources are adapters known to carry unreviewed
// manuscripts. Neither list implies a "conference" tier — the pipeline
// has no signal distinguishing conference proceedings from journal
// articles, so that tier of spec §4.6's table is currently unreachable.
var peerReviewedSources = map[string]bool{
	"pubmed": true, "semantic_scholar": true, "crossref": true,
	"scopus": true, "wos": true, "web_of_science": true, "springer": true,
	"ieee": true, "elsevier": true, "europe_pmc": true, "openalex": true,
}

var preprintSources = map[string]bool{
	"arxiv": true, "biorxiv": true, "medrxiv": true, "chemrxiv": true, "ssrn": true,
}

// highImpactJournals and reputablePublishers are spec §4.6's fixed closed
// sets.
var highImpactJournals = map[string]bool{
	"nature": true, "science": true, "cell": true, "the lancet": true,
	"lancet": true, "nejm": true, "new england journal of medicine": true,
	"jama": true, "bmj": true, "nature medicine": true, "nature genetics": true,
	"pnas": true, "prl": true, "physical review letters": true,
	"jacs": true, "journal of the american chemical society": true,
	"angewandte chemie": true,
}

var reputablePublishers = map[string]bool{
	"springer": true, "elsevier": true, "wiley": true, "acs": true,
	"american chemical society": true, "rsc": true, "royal society of chemistry": true,
	"ieee": true, "oup": true, "oxford university press": true,
	"cup": true, "cambridge university press": true, "plos": true,
	"frontiers": true, "bmc": true,
}

type Scorer struct {
	logger *slog.Logger
	now    func() int
}

func NewScorer(logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{logger: logger, now: models.CurrentYear}
}

// Score computes the reliability breakdown and band for every record in
// place. contradictions maps a record's DOI (or title, when DOI is empty)
// to the count of asserted contradictions found against it by the
// reasoner's conflict-detection pass; a nil map means none were found.
func (s *Scorer) Score(records []models.Record, contradictions map[string]int) {
	year := s.now()

	for i := range records {
		r := &records[i]
		b := models.ReliabilityBreakdown{
			PeerReview:      peerReviewComponent(r.SourcesFoundIn),
			JournalRep:      journalReputationComponent(r.Journal, r.Publisher),
			CitationImpact:  citationComponent(r.CitationCount),
			CrossSourceVerf: crossSourceComponent(len(r.SourcesFoundIn)),
			Recency:         recencyComponent(r.Year, year),
		}

		total := b.PeerReview + b.JournalRep + b.CitationImpact + b.CrossSourceVerf + b.Recency

		penalty := 0.0
		if n := contradictions[contradictionKey(r)]; n > 0 {
			penalty = 0.05 * float64(n)
			if penalty > 0.25 {
				penalty = 0.25
			}
		}
		b.Contradictions = penalty
		total -= penalty

		if r.Retracted {
			total = 0.0
		}
		if total < 0 {
			total = 0
		}
		if total > 1 {
			total = 1
		}

		r.ReliabilityBreakdown = b
		r.Reliability = total
		r.ReliabilityBand = band(total)
	}
}

func contradictionKey(r *models.Record) string {
	if r.DOI != "" {
		return models.NormalizeDOI(r.DOI)
	}
	return models.NormalizeTitle(r.Title)
}

// band applies spec §4.6's green/yellow/red thresholds, carried in the
// model as the high/medium/low ReliabilityBand values.
func band(score float64) models.ReliabilityBand {
	switch {
	case score >= 0.80:
		return models.BandHigh
	case score >= 0.50:
		return models.BandMedium
	default:
		return models.BandLow
	}
}

func peerReviewComponent(sources map[string]bool) float64 {
	for s := range sources {
		if peerReviewedSources[s] {
			return 0.30
		}
	}
	for s := range sources {
		if preprintSources[s] {
			return 0.10
		}
	}
	return 0.05
}

func journalReputationComponent(journal, publisher string) float64 {
	if highImpactJournals[lower(journal)] {
		return 0.20
	}
	if reputablePublishers[lower(publisher)] {
		return 0.15
	}
	if journal != "" {
		return 0.10
	}
	return 0
}

func citationComponent(count int) float64 {
	switch {
	case count >= 500:
		return 0.20
	case count >= 100:
		return 0.15
	case count >= 25:
		return 0.10
	case count >= 5:
		return 0.05
	case count >= 1:
		return 0.02
	default:
		return 0
	}
}

// crossSourceComponent rewards a record independently surfaced by multiple
// adapters, per spec §4.6's cross-source verification column.
func crossSourceComponent(sourceCount int) float64 {
	switch {
	case sourceCount >= 5:
		return 0.20
	case sourceCount >= 3:
		return 0.15
	case sourceCount >= 2:
		return 0.10
	case sourceCount == 1:
		return 0.05
	default:
		return 0
	}
}

func recencyComponent(year, currentYear int) float64 {
	if year == 0 {
		return 0
	}
	age := currentYear - year
	switch {
	case age <= 2:
		return 0.10
	case age <= 5:
		return 0.07
	case age <= 10:
		return 0.04
	default:
		return 0.02
	}
}

func lower(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

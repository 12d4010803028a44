// Package ranking implements the weighted multi-factor relevance ranker of
// spec §4.5: query match, citation impact, recency, source authority,
// open-access bonus, and full-text availability, combined into the
// record's Relevance score and used to order the final result set.
//
// Grounded on the teacher repository's internal/services/search_service.go
// result-ordering step, generalized from "sort by citation count" into the
// weighted multi-factor score spec §4.5 defines.
package ranking

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"litfed-backend/internal/models"
)

// Weights are the spec §4.5 fixed weights.
type Weights struct {
	QueryMatch      float64
	CitationImpact  float64
	Recency         float64
	SourceAuthority float64
	OpenAccess      float64
	FullText        float64
}

func DefaultWeights() Weights {
	return Weights{
		QueryMatch:      0.30,
		CitationImpact:  0.20,
		Recency:         0.15,
		SourceAuthority: 0.15,
		OpenAccess:      0.10,
		FullText:        0.10,
	}
}

// authorityScore is spec §4.5's fixed authority table; sources absent from
// it score the 0.60 default.
var authorityScore = map[string]float64{
	"pubmed": 0.95, "scopus": 0.95, "wos": 0.95, "web_of_science": 0.95,

	"semantic_scholar": 0.90, "google_scholar": 0.88, "crossref": 0.90,
	"openalex": 0.88, "springer": 0.88, "ieee": 0.90,

	"arxiv": 0.85, "europe_pmc": 0.82, "dimensions": 0.80, "base": 0.80,
	"core": 0.80, "doaj": 0.80,

	"biorxiv": 0.75, "medrxiv": 0.75, "chemrxiv": 0.72, "ssrn": 0.70,
}

const authorityDefault = 0.60

type Ranker struct {
	weights Weights
	logger  *slog.Logger
	now     func() int // current year; overridable in tests
}

func NewRanker(weights Weights, logger *slog.Logger) *Ranker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ranker{weights: weights, logger: logger, now: currentYear}
}

func currentYear() int { return models.CurrentYear() }

// Rank computes Relevance for every record against the query analysis and
// sorts the slice in place: descending by score, ties broken by citation
// count descending, then year descending, then insertion order (spec
// §4.5).
func (r *Ranker) Rank(records []models.Record, analysis models.QueryAnalysis) {
	maxCitations := 0
	for _, rec := range records {
		if rec.CitationCount > maxCitations {
			maxCitations = rec.CitationCount
		}
	}

	queryTerms := tokenSet(analysis.Keywords)
	expandedTerms := tokenSet(append(append([]string{}, analysis.Keywords...), analysis.RelatedConcepts...))
	year := r.now()

	for i := range records {
		records[i].Relevance = r.score(&records[i], queryTerms, expandedTerms, maxCitations, year)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Relevance != records[j].Relevance {
			return records[i].Relevance > records[j].Relevance
		}
		if records[i].CitationCount != records[j].CitationCount {
			return records[i].CitationCount > records[j].CitationCount
		}
		if records[i].Year != records[j].Year {
			return records[i].Year > records[j].Year
		}
		return records[i].InsertionIndex() < records[j].InsertionIndex()
	})

	r.logger.Debug("ranking complete", slog.Int("records", len(records)))
}

func (r *Ranker) score(rec *models.Record, queryTerms, expandedTerms map[string]bool, maxCitations, currentYear int) float64 {
	w := r.weights

	match := queryMatchScore(rec, queryTerms, expandedTerms)
	citation := citationImpactScore(rec.CitationCount, maxCitations)
	recency := recencyScore(rec.Year, currentYear)
	authority := sourceAuthorityScore(rec.SourcesFoundIn)
	openAccess := openAccessScore(rec)
	fullText := fullTextScore(rec)

	return w.QueryMatch*match + w.CitationImpact*citation + w.Recency*recency +
		w.SourceAuthority*authority + w.OpenAccess*openAccess + w.FullText*fullText
}

// queryMatchScore is spec §4.5's 0.6·titleScore + 0.4·abstractScore, each
// scoreX = 0.7·(exactMatches/|Q|) + 0.3·(expandedMatches/|E|).
func queryMatchScore(rec *models.Record, queryTerms, expandedTerms map[string]bool) float64 {
	if len(queryTerms) == 0 {
		return 0
	}
	titleTokens := tokenSet(strings.Fields(strings.ToLower(rec.Title)))
	abstractTokens := tokenSet(strings.Fields(strings.ToLower(rec.Abstract)))

	return 0.6*fieldMatchScore(titleTokens, queryTerms, expandedTerms) +
		0.4*fieldMatchScore(abstractTokens, queryTerms, expandedTerms)
}

func fieldMatchScore(fieldTokens, queryTerms, expandedTerms map[string]bool) float64 {
	exact := countMatches(fieldTokens, queryTerms)
	expanded := countMatches(fieldTokens, expandedTerms)
	var score float64
	if len(queryTerms) > 0 {
		score += 0.7 * float64(exact) / float64(len(queryTerms))
	}
	if len(expandedTerms) > 0 {
		score += 0.3 * float64(expanded) / float64(len(expandedTerms))
	}
	return min1(score)
}

func countMatches(fieldTokens, terms map[string]bool) int {
	n := 0
	for t := range terms {
		if fieldTokens[t] {
			n++
		}
	}
	return n
}

// tokenSet lower-cases and keeps tokens longer than 2 characters, per spec
// §4.5's matching rule.
func tokenSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if len(w) > 2 {
			set[w] = true
		}
	}
	return set
}

// citationImpactScore is spec §4.5's log-compressed normalization against
// the batch maximum.
func citationImpactScore(count, max int) float64 {
	if max <= 0 || count <= 0 {
		return 0
	}
	v := math.Log(1+100*float64(count)/float64(max)) / math.Log(101)
	return min1(v)
}

// recencyScore is spec §4.5's step function; a missing year scores 0.
func recencyScore(year, currentYear int) float64 {
	if year == 0 {
		return 0
	}
	age := currentYear - year
	switch {
	case age <= 0:
		return 1.0
	case age <= 2:
		return 0.95
	case age <= 5:
		return 0.85
	case age <= 10:
		return 0.70
	case age <= 20:
		return 0.50
	default:
		v := 0.50 - 0.02*float64(age-20)
		if v < 0.2 {
			return 0.2
		}
		return v
	}
}

func sourceAuthorityScore(sources map[string]bool) float64 {
	best := 0.0
	found := false
	for s := range sources {
		if score, ok := authorityScore[s]; ok {
			found = true
			if score > best {
				best = score
			}
		}
	}
	if !found {
		return authorityDefault
	}
	return best
}

func openAccessScore(rec *models.Record) float64 {
	switch {
	case rec.Access == models.AccessOpen:
		return 1.0
	case rec.PDFURL != "":
		return 0.7
	default:
		return 0
	}
}

func fullTextScore(rec *models.Record) float64 {
	switch {
	case rec.PDFURL != "":
		return 1.0
	case rec.ArxivID != "":
		return 0.8
	case rec.PubMedID != "" && rec.Access == models.AccessOpen:
		return 0.8
	default:
		return 0
	}
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}

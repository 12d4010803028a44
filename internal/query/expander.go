// Package query implements the Query Expander of spec §4.2: a
// deterministic, keyword-and-heuristic pass over the raw query string that
// decides which field the query belongs to, what type of request it is,
// and what variations are worth running through the adapters alongside the
// original text.
//
// Grounded on the teacher repository's query-normalization helpers in
// internal/services/search_service.go, generalized from "strip stopwords
// for one search backend" to the richer field/type/variation analysis
// spec §4.2 calls for.
package query

import (
	"log/slog"
	"strconv"
	"strings"

	"litfed-backend/internal/models"
)

const maxVariations = 15

// Expander turns a raw query string into a models.QueryAnalysis.
type Expander struct {
	logger *slog.Logger
	now    func() int
}

func NewExpander(logger *slog.Logger) *Expander {
	if logger == nil {
		logger = slog.Default()
	}
	return &Expander{logger: logger, now: models.CurrentYear}
}

// fieldKeywords are tested in the declared order (spec §4.2); the map
// iteration itself is unordered so detectField walks fieldOrder instead.
var fieldOrder = []models.FieldTag{
	models.FieldMedicineBiology, models.FieldPhysics, models.FieldChemistry,
	models.FieldComputerScience, models.FieldEngineering, models.FieldSocialScience,
}

var fieldKeywords = map[models.FieldTag][]string{
	models.FieldMedicineBiology: {"cancer", "gene", "protein", "clinical", "disease", "patient", "cell", "therapy", "drug", "medicine", "biology", "genome"},
	models.FieldPhysics:         {"quantum", "particle", "relativity", "photon", "energy", "field theory", "cosmology", "astrophysics"},
	models.FieldChemistry:       {"molecule", "reaction", "catalyst", "synthesis", "polymer", "compound", "chemical"},
	models.FieldComputerScience: {"algorithm", "neural network", "machine learning", "software", "computer", "deep learning", "dataset", "model"},
	models.FieldEngineering:     {"circuit", "material", "structural", "control system", "signal processing", "robotics"},
	models.FieldSocialScience:   {"social", "survey", "policy", "economic", "behavior", "psychology", "education"},
}

// typeOrder fixes the order detectType tests typeKeywords in; meta-analysis
// comes before review so "systematic review" is not taken by "review".
var typeOrder = []models.QueryType{
	models.QueryMetaAnalysis, models.QueryReview, models.QueryMethodology, models.QueryComparison,
}

var typeKeywords = map[models.QueryType][]string{
	models.QueryReview:       {"review", "survey of", "overview"},
	models.QueryMetaAnalysis: {"meta-analysis", "meta analysis", "systematic review"},
	models.QueryMethodology:  {"method", "technique", "approach", "framework"},
	models.QueryComparison:   {"versus", " vs ", "comparison", "compared to"},
}

// stopwords is a fixed closed list of ~30 common English words, per spec
// §4.2.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "in": true, "on": true,
	"and": true, "or": true, "for": true, "to": true, "with": true, "is": true,
	"are": true, "was": true, "were": true, "be": true, "by": true, "at": true,
	"from": true, "as": true, "that": true, "this": true, "these": true,
	"those": true, "it": true, "its": true, "into": true, "about": true,
	"can": true, "will": true, "their": true,
}

// Expand produces the keyword set, detected field, query type, and the
// variation list the orchestrator fans out across adapters.
func (e *Expander) Expand(raw string) models.QueryAnalysis {
	lower := strings.ToLower(strings.TrimSpace(raw))

	analysis := models.QueryAnalysis{
		OriginalQuery: raw,
		Keywords:      extractKeywords(lower),
		DetectedField: detectField(lower),
		QueryType:     detectType(lower),
	}
	analysis.RelatedConcepts = relatedConcepts(analysis.DetectedField)
	analysis.Variations = e.buildVariations(raw, analysis.DetectedField, analysis.RelatedConcepts)

	e.logger.Debug("query expanded",
		slog.String("query", raw),
		slog.String("field", string(analysis.DetectedField)),
		slog.String("type", string(analysis.QueryType)),
		slog.Int("variations", len(analysis.Variations)))

	return analysis
}

func extractKeywords(lower string) []string {
	fields := strings.Fields(lower)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'()")
		if f == "" || stopwords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

func detectField(lower string) models.FieldTag {
	for _, field := range fieldOrder {
		for _, kw := range fieldKeywords[field] {
			if strings.Contains(lower, kw) {
				return field
			}
		}
	}
	return models.FieldGeneral
}

func detectType(lower string) models.QueryType {
	for _, t := range typeOrder {
		for _, kw := range typeKeywords[t] {
			if strings.Contains(lower, kw) {
				return t
			}
		}
	}
	return models.QueryExploratory
}

// fieldConcepts is the canned per-field augmentation vocabulary spec §4.2
// draws "up to 8" related concepts from.
var fieldConcepts = map[models.FieldTag][]string{
	models.FieldMedicineBiology: {"clinical trial", "biomarker", "pathology", "randomized controlled trial", "epidemiology", "diagnosis", "treatment outcome", "pharmacokinetics"},
	models.FieldPhysics:         {"theoretical model", "experimental measurement", "simulation", "field equation", "symmetry breaking", "phase transition"},
	models.FieldChemistry:       {"reaction mechanism", "spectroscopy", "thermodynamics", "crystal structure", "reaction kinetics"},
	models.FieldComputerScience: {"benchmark", "evaluation metric", "architecture", "training data", "generalization", "optimization"},
	models.FieldEngineering:     {"design specification", "system architecture", "failure analysis", "performance testing"},
	models.FieldSocialScience:   {"qualitative analysis", "longitudinal study", "survey methodology", "case study"},
	models.FieldGeneral:         {"literature review", "empirical study"},
}

func relatedConcepts(field models.FieldTag) []string {
	concepts := fieldConcepts[field]
	if len(concepts) > 8 {
		concepts = concepts[:8]
	}
	return append([]string{}, concepts...)
}

// buildVariations follows spec §4.2's recipe exactly: original query,
// query + {review, systematic review, meta-analysis}, query + current
// year, query + current year - 1, query + each related concept, query +
// 2-3 field augmentations — deduplicated, capped at 15, original first.
func (e *Expander) buildVariations(raw string, field models.FieldTag, concepts []string) []string {
	year := e.now()
	candidates := []string{raw}

	for _, suffix := range []string{"review", "systematic review", "meta-analysis"} {
		candidates = append(candidates, raw+" "+suffix)
	}

	candidates = append(candidates, raw+" "+strconv.Itoa(year))
	candidates = append(candidates, raw+" "+strconv.Itoa(year-1))

	for _, c := range concepts {
		candidates = append(candidates, raw+" "+strings.TrimSpace(c))
	}

	augmentations := fieldAugmentations(field)
	for _, a := range augmentations {
		candidates = append(candidates, raw+" "+a)
	}

	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, maxVariations)
	for _, v := range candidates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
		if len(out) == maxVariations {
			break
		}
	}
	return out
}

// fieldAugmentations picks 2-3 field-specific terms distinct from the
// concept list, drawn from the same vocabulary a field's keyword table
// uses to detect it.
func fieldAugmentations(field models.FieldTag) []string {
	kws := fieldKeywords[field]
	if len(kws) == 0 {
		return nil
	}
	n := 3
	if len(kws) < n {
		n = len(kws)
	}
	return append([]string{}, kws[:n]...)
}

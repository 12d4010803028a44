// Package reasoning implements the Multi-Turn Reasoner of spec §4.7: eight
// deterministic analytical passes over the ranked record set, run in a
// fixed order that is itself part of the contract. No pass performs I/O.
//
// Grounded on the teacher repository's internal/services/analytics_service.go
// aggregation helpers, generalized from "count papers per category" into
// the eight-pass pipeline spec §4.7 defines.
package reasoning

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"litfed-backend/internal/models"
)

const (
	themeTopN          = 20
	gapLookbackYears    = 10
	citationTopN       = 20
)

var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "in": true, "on": true,
	"and": true, "or": true, "for": true, "to": true, "with": true, "is": true,
	"are": true, "was": true, "were": true, "be": true, "by": true, "at": true,
	"from": true, "as": true, "that": true, "this": true, "these": true,
	"those": true, "it": true, "its": true, "into": true, "about": true,
	"can": true, "will": true, "their": true,
}

type Reasoner struct {
	logger *slog.Logger
	now    func() int
}

func NewReasoner(logger *slog.Logger) *Reasoner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reasoner{logger: logger, now: models.CurrentYear}
}

// Run executes all eight passes in definition order and assembles the
// final ReasoningResult.
func (re *Reasoner) Run(records []models.Record, analysis models.QueryAnalysis) models.ReasoningResult {
	var steps []models.ReasoningStep

	steps = append(steps, re.runPass(1, models.StepCategorization, func() models.ReasoningStep {
		return re.categorization(records)
	}))
	steps = append(steps, re.runPass(2, models.StepThemeIdentification, func() models.ReasoningStep {
		return re.themeIdentification(records)
	}))
	steps = append(steps, re.runPass(3, models.StepConflictDetection, func() models.ReasoningStep {
		return re.conflictDetection(records)
	}))
	steps = append(steps, re.runPass(4, models.StepCrossValidation, func() models.ReasoningStep {
		return re.crossValidation(records)
	}))
	steps = append(steps, re.runPass(5, models.StepGapIdentification, func() models.ReasoningStep {
		return re.gapIdentification(records, analysis)
	}))
	steps = append(steps, re.runPass(6, models.StepChronological, func() models.ReasoningStep {
		return re.chronologicalAnalysis(records)
	}))
	steps = append(steps, re.runPass(7, models.StepCitationPattern, func() models.ReasoningStep {
		return re.citationPatternAnalysis(records)
	}))
	steps = append(steps, re.runPass(8, models.StepSynthesis, func() models.ReasoningStep {
		return re.synthesis(records, steps)
	}))

	re.logger.Debug("reasoning complete", slog.Int("steps", len(steps)))

	return models.ReasoningResult{
		Steps:               steps,
		AggregateConfidence: steps[len(steps)-1].Confidence,
		KeyInsights:         extractInsights(steps),
		RecommendedPapers:   recommendedPapers(records),
	}
}

// runPass isolates a single pass: a panic inside fn (a nil map write, a
// divide-by-zero, an out-of-range slice index on malformed input) is
// recovered and turned into a zero-confidence step carrying the panic
// value as its rationale, rather than aborting the remaining passes.
func (re *Reasoner) runPass(stepNumber int, stepType models.ReasoningStepType, fn func() models.ReasoningStep) (step models.ReasoningStep) {
	defer func() {
		if r := recover(); r != nil {
			re.logger.Error("reasoning pass panicked",
				slog.Int("step", stepNumber), slog.String("type", string(stepType)), slog.Any("panic", r))
			step = models.ReasoningStep{
				StepNumber:  stepNumber,
				Type:        stepType,
				Description: "pass did not complete",
				Confidence:  0,
				Rationale:   fmt.Sprintf("pass panicked: %v", r),
			}
		}
	}()
	return fn()
}

// --- Pass 1: Categorization ---

type categoryCount struct {
	Field string `json:"field"`
	Count int    `json:"count"`
}

func (re *Reasoner) categorization(records []models.Record) models.ReasoningStep {
	counts := make(map[string]int)
	for _, r := range records {
		field := classifyField(r.Title + " " + r.Abstract)
		counts[field]++
	}
	result := make([]categoryCount, 0, len(counts))
	for field, n := range counts {
		result = append(result, categoryCount{Field: field, Count: n})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Count > result[j].Count })

	rationale := fmt.Sprintf("%d records span %d detected fields", len(records), len(result))
	if len(result) > 0 {
		rationale = fmt.Sprintf("%s; %s dominates with %d records", rationale, result[0].Field, result[0].Count)
	}

	return models.ReasoningStep{
		StepNumber:  1,
		Type:        models.StepCategorization,
		Description: "Bucket records by detected field",
		Result:      result,
		Confidence:  0.85,
		Rationale:   rationale,
	}
}

var fieldVocabulary = map[string][]string{
	"medicine_biology": {"cancer", "gene", "protein", "clinical", "disease", "patient", "cell", "therapy", "drug"},
	"physics":          {"quantum", "particle", "relativity", "photon", "energy", "cosmology"},
	"chemistry":        {"molecule", "reaction", "catalyst", "synthesis", "polymer", "compound"},
	"computer_science":  {"algorithm", "neural network", "machine learning", "software", "deep learning"},
	"engineering":      {"circuit", "material", "structural", "control system", "robotics"},
	"social_science":   {"social", "survey", "policy", "economic", "behavior", "psychology"},
}

var fieldVocabularyOrder = []string{
	"medicine_biology", "physics", "chemistry", "computer_science", "engineering", "social_science",
}

func classifyField(text string) string {
	lower := strings.ToLower(text)
	for _, field := range fieldVocabularyOrder {
		for _, kw := range fieldVocabulary[field] {
			if strings.Contains(lower, kw) {
				return field
			}
		}
	}
	return "general"
}

// --- Pass 2: Theme identification ---

type themeCount struct {
	Term  string  `json:"term"`
	Count int     `json:"count"`
	Ratio float64 `json:"ratio"`
}

func (re *Reasoner) themeIdentification(records []models.Record) models.ReasoningStep {
	counts := make(map[string]int)
	for _, r := range records {
		for token := range significantTokens(r.Title + " " + r.Abstract) {
			counts[token]++
		}
	}
	themes := make([]themeCount, 0, len(counts))
	n := float64(len(records))
	for term, count := range counts {
		ratio := 0.0
		if n > 0 {
			ratio = float64(count) / n
		}
		themes = append(themes, themeCount{Term: term, Count: count, Ratio: ratio})
	}
	sort.Slice(themes, func(i, j int) bool {
		if themes[i].Count != themes[j].Count {
			return themes[i].Count > themes[j].Count
		}
		return themes[i].Term < themes[j].Term
	})
	if len(themes) > themeTopN {
		themes = themes[:themeTopN]
	}

	rationale := fmt.Sprintf("extracted %d recurring terms from %d records", len(themes), len(records))
	if len(themes) > 0 {
		rationale = fmt.Sprintf("%s; most frequent is %q (%d occurrences)", rationale, themes[0].Term, themes[0].Count)
	}

	return models.ReasoningStep{
		StepNumber:  2,
		Type:        models.StepThemeIdentification,
		Description: "Frequency count of significant terms across titles and abstracts",
		Result:      themes,
		Confidence:  0.80,
		Rationale:   rationale,
	}
}

// significantTokens lower-cases, strips punctuation, and keeps
// non-stop-word tokens longer than 4 characters, per spec §4.7 pass 2.
func significantTokens(text string) map[string]bool {
	lower := strings.ToLower(text)
	var b strings.Builder
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	tokens := strings.Fields(b.String())
	out := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if len(t) > 4 && !stopwords[t] {
			out[t] = true
		}
	}
	return out
}

// --- Pass 3: Conflict detection ---

type conflictGroup struct {
	Token     string   `json:"dominant_token"`
	Records   int      `json:"records"`
	Conflicts []string `json:"conflicts"`
}

func (re *Reasoner) conflictDetection(records []models.Record) models.ReasoningStep {
	groups := groupByDominantToken(records)
	var result []conflictGroup
	anyConflict := false

	for token, idxs := range groups {
		if len(idxs) < 2 {
			continue
		}
		conflicts := detectTemporalAndMethodologyConflicts(records, idxs)
		if len(conflicts) > 0 {
			anyConflict = true
		}
		result = append(result, conflictGroup{Token: token, Records: len(idxs), Conflicts: conflicts})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Token < result[j].Token })

	confidence := 0.95
	rationale := fmt.Sprintf("no temporal conflicts found across %d dominant-topic groups", len(result))
	if anyConflict {
		confidence = 0.70
		rationale = fmt.Sprintf("found temporal/methodology conflicts in at least one of %d dominant-topic groups", len(result))
	}

	return models.ReasoningStep{
		StepNumber:  3,
		Type:        models.StepConflictDetection,
		Description: "Group by dominant topic, check temporal and methodology conflicts",
		Result:      result,
		Confidence:  confidence,
		Rationale:   rationale,
	}
}

// detectTemporalAndMethodologyConflicts is a placeholder heuristic per
// spec §4.7 pass 3: it has no strong claims-extraction signal to work
// from yet, so it returns conflicts only for the coarse case of the same
// topic spanning a multi-decade gap, which is the one pattern cheaply
// readable off Year alone.
func detectTemporalAndMethodologyConflicts(records []models.Record, idxs []int) []string {
	minYear, maxYear := 0, 0
	for _, i := range idxs {
		y := records[i].Year
		if y == 0 {
			continue
		}
		if minYear == 0 || y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}
	if minYear != 0 && maxYear-minYear >= 20 {
		return []string{"records span more than two decades; methodology may have shifted"}
	}
	return nil
}

func groupByDominantToken(records []models.Record) map[string][]int {
	groups := make(map[string][]int)
	for i, r := range records {
		token := dominantTitleToken(r.Title)
		if token == "" {
			continue
		}
		groups[token] = append(groups[token], i)
	}
	return groups
}

// dominantTitleToken picks the longest significant token in the title,
// longest-first as a cheap proxy for topical specificity.
func dominantTitleToken(title string) string {
	tokens := significantTokens(title)
	best := ""
	for t := range tokens {
		if len(t) > len(best) || (len(t) == len(best) && t < best) {
			best = t
		}
	}
	return best
}

// --- Pass 4: Cross-validation ---

type crossValidatedClaim struct {
	Claim   string `json:"claim"`
	Sources int    `json:"sources"`
}

func (re *Reasoner) crossValidation(records []models.Record) models.ReasoningStep {
	groups := groupByDominantToken(records)
	var claims []crossValidatedClaim
	totalSources := 0
	sourceSum := 0

	for token, idxs := range groups {
		sources := make(map[string]bool)
		for _, i := range idxs {
			for s := range records[i].SourcesFoundIn {
				sources[s] = true
			}
		}
		totalSources++
		sourceSum += len(sources)
		if len(sources) >= 2 {
			claims = append(claims, crossValidatedClaim{Claim: token, Sources: len(sources)})
		}
	}
	sort.Slice(claims, func(i, j int) bool { return claims[i].Sources > claims[j].Sources })

	confidence := 0.5
	if totalSources > 0 {
		avg := float64(sourceSum) / float64(totalSources)
		confidence = 0.5 + 0.5*avg/float64(maxInt(totalSources, 1))
		if confidence > 0.95 {
			confidence = 0.95
		}
	}

	rationale := fmt.Sprintf("%d of %d dominant claims are corroborated by 2+ independent sources", len(claims), totalSources)

	return models.ReasoningStep{
		StepNumber:  4,
		Type:        models.StepCrossValidation,
		Description: "Count distinct sources asserting each dominant claim",
		Result:      claims,
		Confidence:  confidence,
		Rationale:   rationale,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// --- Pass 5: Gap identification ---

type gap struct {
	Description string `json:"description"`
}

func (re *Reasoner) gapIdentification(records []models.Record, analysis models.QueryAnalysis) models.ReasoningStep {
	var gaps []gap
	n := len(records)
	currentYear := re.now()

	yearCounts := make(map[int]int)
	for _, r := range records {
		if r.Year != 0 {
			yearCounts[r.Year]++
		}
	}
	for y := currentYear - gapLookbackYears + 1; y <= currentYear; y++ {
		if yearCounts[y] < n/20 {
			gaps = append(gaps, gap{Description: "limited research in year " + strconv.Itoa(y)})
		}
	}

	conceptCounts := make(map[string]int)
	lowerTitles := make([]string, len(records))
	for i, r := range records {
		lowerTitles[i] = strings.ToLower(r.Title + " " + r.Abstract)
	}
	for _, concept := range analysis.RelatedConcepts {
		c := strings.ToLower(concept)
		count := 0
		for _, t := range lowerTitles {
			if strings.Contains(t, c) {
				count++
			}
		}
		conceptCounts[concept] = count
		if count < n/10 {
			gaps = append(gaps, gap{Description: "limited coverage of " + concept})
		}
	}

	rationale := fmt.Sprintf("identified %d coverage gaps across the last %d years and %d related concepts",
		len(gaps), gapLookbackYears, len(analysis.RelatedConcepts))

	return models.ReasoningStep{
		StepNumber:  5,
		Type:        models.StepGapIdentification,
		Description: "Flag under-covered years and related concepts",
		Result:      gaps,
		Confidence:  0.75,
		Rationale:   rationale,
	}
}

// --- Pass 6: Chronological analysis ---

type yearThemes struct {
	Year     int      `json:"year"`
	Themes   []string `json:"themes"`
	Emerging []string `json:"emerging"`
}

func (re *Reasoner) chronologicalAnalysis(records []models.Record) models.ReasoningStep {
	byYear := make(map[int][]int)
	for i, r := range records {
		if r.Year != 0 {
			byYear[r.Year] = append(byYear[r.Year], i)
		}
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	var result []yearThemes
	var prevThemes map[string]bool

	for _, y := range years {
		counts := make(map[string]int)
		for _, i := range byYear[y] {
			for t := range significantTokens(records[i].Title + " " + records[i].Abstract) {
				counts[t]++
			}
		}
		top := topTerms(counts, 5)
		topSet := make(map[string]bool, len(top))
		for _, t := range top {
			topSet[t] = true
		}
		var emerging []string
		for _, t := range top {
			if prevThemes != nil && !prevThemes[t] {
				emerging = append(emerging, t)
			}
		}
		result = append(result, yearThemes{Year: y, Themes: top, Emerging: emerging})
		prevThemes = topSet
	}

	emergingTotal := 0
	for _, yt := range result {
		emergingTotal += len(yt.Emerging)
	}
	rationale := fmt.Sprintf("tracked themes across %d years, %d labeled emerging", len(result), emergingTotal)

	return models.ReasoningStep{
		StepNumber:  6,
		Type:        models.StepChronological,
		Description: "Top-5 themes per year, labeling terms absent the prior year as emerging",
		Result:      result,
		Confidence:  0.85,
		Rationale:   rationale,
	}
}

func topTerms(counts map[string]int, n int) []string {
	terms := make([]string, 0, len(counts))
	for t := range counts {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}

// --- Pass 7: Citation-pattern analysis ---

type citationPattern struct {
	Title string `json:"title"`
	Label string `json:"label"`
}

func (re *Reasoner) citationPatternAnalysis(records []models.Record) models.ReasoningStep {
	currentYear := re.now()

	sorted := make([]models.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CitationCount > sorted[j].CitationCount })
	if len(sorted) > citationTopN {
		sorted = sorted[:citationTopN]
	}

	var sum int
	for _, r := range records {
		sum += r.CitationCount
	}
	mean := 0.0
	if len(records) > 0 {
		mean = float64(sum) / float64(len(records))
	}

	var patterns []citationPattern
	for _, r := range sorted {
		switch {
		case float64(r.CitationCount) > 2*mean && r.Year != 0 && r.Year < currentYear-5:
			patterns = append(patterns, citationPattern{Title: r.Title, Label: "foundational"})
		case r.Year >= currentYear-2 && float64(r.CitationCount) > mean:
			patterns = append(patterns, citationPattern{Title: r.Title, Label: "rising_star"})
		}
	}

	foundational, rising := 0, 0
	for _, p := range patterns {
		if p.Label == "foundational" {
			foundational++
		} else {
			rising++
		}
	}
	rationale := fmt.Sprintf("mean citation count %.1f across %d records; %d foundational, %d rising stars",
		mean, len(records), foundational, rising)

	return models.ReasoningStep{
		StepNumber:  7,
		Type:        models.StepCitationPattern,
		Description: "Label top-cited records as foundational or rising stars",
		Result:      patterns,
		Confidence:  0.90,
		Rationale:   rationale,
	}
}

// --- Pass 8: Synthesis ---

type synthesisSummary struct {
	TotalPapers    int      `json:"total_papers"`
	DistinctSources int     `json:"distinct_sources"`
	YearSpan       [2]int   `json:"year_span"`
	Confirmed      []string `json:"confirmed_steps"`
	Uncertain      []string `json:"uncertain_steps"`
}

func (re *Reasoner) synthesis(records []models.Record, prior []models.ReasoningStep) models.ReasoningStep {
	sources := make(map[string]bool)
	minYear, maxYear := 0, 0
	for _, r := range records {
		for s := range r.SourcesFoundIn {
			sources[s] = true
		}
		if r.Year == 0 {
			continue
		}
		if minYear == 0 || r.Year < minYear {
			minYear = r.Year
		}
		if r.Year > maxYear {
			maxYear = r.Year
		}
	}

	var confirmed, uncertain []string
	for _, s := range prior {
		if s.Confidence >= 0.70 {
			confirmed = append(confirmed, string(s.Type))
		} else {
			uncertain = append(uncertain, string(s.Type))
		}
	}

	confidence := 0.5
	if len(prior) > 0 {
		confidence = 0.5 + 0.5*float64(len(confirmed))/float64(len(prior))
	}

	summary := synthesisSummary{
		TotalPapers:     len(records),
		DistinctSources: len(sources),
		YearSpan:        [2]int{minYear, maxYear},
		Confirmed:       confirmed,
		Uncertain:       uncertain,
	}

	rationale := fmt.Sprintf("%d of %d prior passes reached confidence >= 0.70 across %d papers from %d sources",
		len(confirmed), len(prior), len(records), len(sources))

	return models.ReasoningStep{
		StepNumber:  8,
		Type:        models.StepSynthesis,
		Description: "Aggregate prior steps into confirmed/uncertain partitions and summary statistics",
		Result:      summary,
		Confidence:  confidence,
		Rationale:   rationale,
	}
}

// --- Final assembly helpers ---

func extractInsights(steps []models.ReasoningStep) []string {
	var insights []string
	for _, s := range steps {
		switch r := s.Result.(type) {
		case []gap:
			for _, g := range r {
				insights = append(insights, g.Description)
			}
		case []citationPattern:
			for _, p := range r {
				insights = append(insights, p.Title+" — "+p.Label)
			}
		}
	}
	return insights
}

func recommendedPapers(records []models.Record) []string {
	var ids []string
	for _, r := range records {
		if r.Reliability >= 0.70 && r.Relevance >= 0.5 {
			ids = append(ids, identifierFor(r))
		}
	}
	return ids
}

func identifierFor(r models.Record) string {
	switch {
	case r.DOI != "":
		return r.DOI
	case r.PubMedID != "":
		return r.PubMedID
	case r.ArxivID != "":
		return r.ArxivID
	default:
		return r.Title
	}
}

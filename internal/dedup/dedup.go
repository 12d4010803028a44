// Package dedup implements the multi-layer deduplication of spec §4.4:
// three folding passes (DOI, PubMed/arXiv ID, normalized-title+author+year
// Jaccard similarity) over the raw candidate stream, each merging into a
// single surviving Record per field-merge rules.
//
// Grounded on the teacher repository's internal/services/search_service.go
// dedup-by-DOI step, generalized from a single exact-match pass into the
// three-layer fold spec §4.4 requires.
package dedup

import (
	"log/slog"
	"sort"
	"strings"

	"litfed-backend/internal/models"
)

const (
	titleJaccardLoose = 0.95 // exact-title-independent duplicate threshold
	titleJaccardTight = 0.90 // requires matching year + first-author surname too
)

// Deduplicator folds a raw candidate stream into distinct records.
type Deduplicator struct {
	logger *slog.Logger
}

func NewDeduplicator(logger *slog.Logger) *Deduplicator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deduplicator{logger: logger}
}

// Fold runs the three layers in order over records carrying their
// insertion index already set by the caller (the orchestrator, as each
// candidate is admitted). Returns the deduplicated set in insertion order
// and the number of duplicates removed.
func (d *Deduplicator) Fold(records []models.Record) ([]models.Record, int) {
	before := len(records)

	byDOI := foldByKey(records, func(r *models.Record) string {
		if r.DOI == "" {
			return ""
		}
		return "doi:" + models.NormalizeDOI(r.DOI)
	})

	byIdentifier := foldByKey(byDOI, func(r *models.Record) string {
		if r.DOI != "" {
			return ""
		}
		switch {
		case r.PubMedID != "":
			return "pmid:" + strings.TrimSpace(r.PubMedID)
		case r.ArxivID != "":
			return "arxiv:" + models.NormalizeArxivID(r.ArxivID)
		default:
			return ""
		}
	})

	final := foldByTitle(byIdentifier)

	sortByInsertionIndex(final)

	removed := before - len(final)
	d.logger.Debug("deduplication complete",
		slog.Int("input", before),
		slog.Int("output", len(final)),
		slog.Int("removed", removed))

	return final, removed
}

// foldByKey groups records sharing a non-empty key (computed by keyFn) and
// merges each group into one record, in first-seen order. Records whose key
// is empty pass through unmerged.
func foldByKey(records []models.Record, keyFn func(*models.Record) string) []models.Record {
	groups := make(map[string][]int)
	order := make([]string, 0)
	var passthrough []models.Record

	for i := range records {
		key := keyFn(&records[i])
		if key == "" {
			passthrough = append(passthrough, records[i])
			continue
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	out := make([]models.Record, 0, len(order)+len(passthrough))
	for _, key := range order {
		idxs := groups[key]
		merged := records[idxs[0]]
		for _, idx := range idxs[1:] {
			merged = mergeRecords(merged, records[idx])
		}
		out = append(out, merged)
	}
	out = append(out, passthrough...)
	return out
}

// foldByTitle declares a duplicate when the normalized titles are exactly
// equal, or Jaccard similarity of length>2 word tokens is >= 0.95, or
// >= 0.90 with matching publication year and first-author surname, per
// spec §4.4 layer 3. This also catches cross-identifier duplicates
// promoted from Layers 1 and 2, since they flow through the same slice.
func foldByTitle(records []models.Record) []models.Record {
	used := make([]bool, len(records))
	out := make([]models.Record, 0, len(records))

	for i := range records {
		if used[i] {
			continue
		}
		merged := records[i]
		used[i] = true
		ti := models.NormalizeTitle(records[i].Title)
		if ti == "" {
			out = append(out, merged)
			continue
		}
		seti := wordSet(ti)
		ai := models.FirstAuthorSurname(records[i].Authors)
		for j := i + 1; j < len(records); j++ {
			if used[j] {
				continue
			}
			tj := models.NormalizeTitle(records[j].Title)
			if tj == "" {
				continue
			}
			if titleDuplicate(ti, tj, seti, records[i].Year, records[j].Year, ai, records[j].Authors) {
				merged = mergeRecords(merged, records[j])
				used[j] = true
			}
		}
		out = append(out, merged)
	}
	return out
}

func titleDuplicate(ti, tj string, seti map[string]bool, yi, yj int, ai string, authorsJ []string) bool {
	if ti == tj {
		return true
	}
	sim := jaccardSets(seti, wordSet(tj))
	if sim >= titleJaccardLoose {
		return true
	}
	if sim >= titleJaccardTight {
		aj := models.FirstAuthorSurname(authorsJ)
		if yi != 0 && yj != 0 && yi == yj && ai != "" && aj != "" && ai == aj {
			return true
		}
	}
	return false
}

func jaccardSets(setA, setB map[string]bool) float64 {
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// wordSet tokenizes on whitespace and keeps tokens longer than 2
// characters, per spec §4.4's title-fold matching rule.
func wordSet(s string) map[string]bool {
	words := strings.Fields(s)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		if len(w) > 2 {
			set[w] = true
		}
	}
	return set
}

// mergeRecords combines two records believed to be the same work, per spec
// §4.4's field-level merge rules: first-non-empty for scalars, union for
// sets, longer-wins for free text, min for insertion index.
func mergeRecords(a, b models.Record) models.Record {
	out := a

	out.DOI = firstNonEmpty(a.DOI, b.DOI)
	out.PubMedID = firstNonEmpty(a.PubMedID, b.PubMedID)
	out.ArxivID = firstNonEmpty(a.ArxivID, b.ArxivID)
	out.Title = firstNonEmpty(a.Title, b.Title)
	out.Abstract = longerWins(a.Abstract, b.Abstract)
	if len(b.Authors) > len(a.Authors) {
		out.Authors = b.Authors
	} else {
		out.Authors = a.Authors
	}
	out.Keywords = unionStrings(a.Keywords, b.Keywords)
	out.Journal = firstNonEmpty(a.Journal, b.Journal)
	out.Publisher = firstNonEmpty(a.Publisher, b.Publisher)
	out.Volume = firstNonEmpty(a.Volume, b.Volume)
	out.Issue = firstNonEmpty(a.Issue, b.Issue)
	out.Pages = firstNonEmpty(a.Pages, b.Pages)
	out.Language = firstNonEmpty(a.Language, b.Language)
	out.ExternalURL = firstNonEmpty(a.ExternalURL, b.ExternalURL)
	out.PDFURL = firstNonEmpty(a.PDFURL, b.PDFURL)

	if a.Year != 0 {
		out.Year = a.Year
	} else {
		out.Year = b.Year
	}

	if b.HasCitationCount && (!a.HasCitationCount || b.CitationCount > a.CitationCount) {
		out.CitationCount = b.CitationCount
		out.HasCitationCount = true
	}

	out.Access = strongerAccess(a.Access, b.Access)
	out.Retracted = a.Retracted || b.Retracted

	out.SourcesFoundIn = make(map[string]bool, len(a.SourcesFoundIn)+len(b.SourcesFoundIn))
	for s := range a.SourcesFoundIn {
		out.SourcesFoundIn[s] = true
	}
	for s := range b.SourcesFoundIn {
		out.SourcesFoundIn[s] = true
	}
	out.PrimarySource = firstNonEmpty(a.PrimarySource, b.PrimarySource)

	if b.InsertionIndex() < a.InsertionIndex() {
		out.SetInsertionIndex(b.InsertionIndex())
	}

	return out
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func longerWins(a, b string) string {
	if len(b) > len(a) {
		return b
	}
	return a
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			key := strings.ToLower(strings.TrimSpace(v))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, v)
		}
	}
	return out
}

func strongerAccess(a, b models.AccessType) models.AccessType {
	rank := map[models.AccessType]int{models.AccessOpen: 2, models.AccessPaywalled: 1, models.AccessUnknown: 0}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

func sortByInsertionIndex(records []models.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].InsertionIndex() < records[j].InsertionIndex()
	})
}

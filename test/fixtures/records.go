package fixtures

import (
	"time"

	"litfed-backend/internal/models"
)

// RecordFixtures provides test Record data.
type RecordFixtures struct{}

// NewRecordFixtures creates a new record fixtures instance.
func NewRecordFixtures() *RecordFixtures {
	return &RecordFixtures{}
}

// BasicRecord returns a fully-populated record as it would look after
// dedup, ranking and reliability scoring have all run.
func (rf *RecordFixtures) BasicRecord() *models.Record {
	r := &models.Record{
		DOI:       "10.1000/test.001",
		ArxivID:   "2301.00001",
		Title:     "Advances in Machine Learning: A Comprehensive Survey",
		Abstract:  "This paper surveys recent advances in machine learning.",
		Authors:   []string{"Doe, John", "Smith, Jane"},
		Year:      2023,
		Journal:   "Journal of Machine Learning Research",
		Publisher: "JMLR",
		Keywords:  []string{"machine learning", "deep learning", "survey"},
		Access:    models.AccessOpen,
		PDFURL:    "https://arxiv.org/pdf/2301.00001.pdf",
	}
	r.AddSource("arxiv")
	r.AddSource("semantic_scholar")
	r.CitationCount = 125
	r.HasCitationCount = true
	return r
}

// RecordWithoutDOI returns a record identified only by an arXiv ID.
func (rf *RecordFixtures) RecordWithoutDOI() *models.Record {
	r := rf.BasicRecord()
	r.DOI = ""
	r.ArxivID = "2301.00002"
	r.Title = "Novel Approaches in Natural Language Processing"
	return r
}

// MinimalRecord returns a record with only the fields required to satisfy
// the minimum-identity invariant.
func (rf *RecordFixtures) MinimalRecord() *models.Record {
	r := &models.Record{Title: "Minimal Test Record"}
	r.AddSource("test")
	return r
}

// RetractedRecord returns a record flagged as retracted.
func (rf *RecordFixtures) RetractedRecord() *models.Record {
	r := rf.BasicRecord()
	r.Retracted = true
	r.ReliabilityBand = models.BandLow
	return r
}

// PaywalledRecord returns a record behind a paywall with no PDF.
func (rf *RecordFixtures) PaywalledRecord() *models.Record {
	r := rf.BasicRecord()
	r.DOI = "10.1000/test.paywalled"
	r.ArxivID = ""
	r.PDFURL = ""
	r.Access = models.AccessPaywalled
	return r
}

// SearchHistoryFixture returns a basic persisted search-history entry.
func (rf *RecordFixtures) SearchHistoryFixture() *models.SearchHistory {
	return &models.SearchHistory{
		ID:          "search_fixture_1",
		Query:       "machine learning",
		ResultCount: 42,
		Duration:    320,
		Providers:   []string{"arxiv", "crossref", "semantic_scholar"},
		RequestedAt: time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC),
	}
}

// SearchCacheFixture returns a basic cached search result entry.
func (rf *RecordFixtures) SearchCacheFixture() *models.SearchCache {
	return &models.SearchCache{
		QueryHash:  "abc123",
		Query:      "machine learning",
		Provider:   "arxiv",
		ResultJSON: `{"records":[]}`,
		CreatedAt:  time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC),
		ExpiresAt:  time.Date(2026, 7, 1, 12, 15, 0, 0, time.UTC),
	}
}

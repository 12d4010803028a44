package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"litfed-backend/internal/models"
	"litfed-backend/test/fixtures"
)

func TestRecord_HasIdentity(t *testing.T) {
	recordFixtures := fixtures.NewRecordFixtures()

	t.Run("record with DOI", func(t *testing.T) {
		r := recordFixtures.BasicRecord()
		assert.True(t, r.HasIdentity())
	})

	t.Run("record with only title", func(t *testing.T) {
		r := recordFixtures.MinimalRecord()
		assert.True(t, r.HasIdentity())
	})

	t.Run("record with nothing", func(t *testing.T) {
		r := &models.Record{}
		assert.False(t, r.HasIdentity())
	})
}

func TestRecord_AddSource(t *testing.T) {
	r := &models.Record{Title: "x"}

	r.AddSource("arxiv")
	assert.Equal(t, []string{"arxiv"}, r.SourceList())
	assert.Equal(t, "arxiv", r.PrimarySource)

	r.AddSource("crossref")
	assert.Equal(t, []string{"arxiv", "crossref"}, r.SourceList())
	assert.Equal(t, "arxiv", r.PrimarySource, "primary source must not change once set")

	r.AddSource("")
	assert.Equal(t, []string{"arxiv", "crossref"}, r.SourceList(), "empty source is ignored")
}

func TestRecord_InsertionIndex(t *testing.T) {
	r := &models.Record{Title: "x"}
	assert.Equal(t, 0, r.InsertionIndex())

	r.SetInsertionIndex(7)
	assert.Equal(t, 7, r.InsertionIndex())
}

func TestNormalizeDOI(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare", "10.1000/test.001", "10.1000/test.001"},
		{"https prefix", "https://doi.org/10.1000/test.001", "10.1000/test.001"},
		{"http prefix", "http://doi.org/10.1000/test.001", "10.1000/test.001"},
		{"doi prefix", "doi:10.1000/test.001", "10.1000/test.001"},
		{"upper case", "DOI.ORG/10.1000/TEST.001", "10.1000/test.001"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, models.NormalizeDOI(tc.in))
		})
	}
}

func TestNormalizeArxivID(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare", "2301.00001", "2301.00001"},
		{"prefixed", "arxiv:2301.00001", "2301.00001"},
		{"versioned", "2301.00001v2", "2301.00001"},
		{"prefixed and versioned", "arXiv:2301.00001v10", "2301.00001"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, models.NormalizeArxivID(tc.in))
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"leading article", "The Survey of Machine Learning", "survey of machine learning"},
		{"punctuation", "Deep-Learning: A Survey!", "deep learning a survey"},
		{"extra whitespace", "  A   Study   of  Things  ", "study of things"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, models.NormalizeTitle(tc.in))
		})
	}
}

func TestFirstAuthorSurname(t *testing.T) {
	cases := []struct {
		name    string
		authors []string
		want    string
	}{
		{"last, first", []string{"Doe, John"}, "doe"},
		{"first last", []string{"John Doe"}, "doe"},
		{"no authors", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, models.FirstAuthorSurname(tc.authors))
		})
	}
}

func TestSearchCache_IncrementAccess(t *testing.T) {
	recordFixtures := fixtures.NewRecordFixtures()
	cache := recordFixtures.SearchCacheFixture()

	assert.Equal(t, int64(0), cache.AccessCount)
	cache.IncrementAccess()
	cache.IncrementAccess()
	assert.Equal(t, int64(2), cache.AccessCount)
}

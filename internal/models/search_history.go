package models

import "time"

// SearchHistory is one persisted record of a search() invocation, kept for
// analytics and the popular-queries/suggestions features. It is the only
// thing this system persists about a search — records themselves are never
// stored, since every run re-resolves them from the adapters.
type SearchHistory struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      *string   `json:"user_id,omitempty" gorm:"index"`
	Query       string    `json:"query" gorm:"index"`
	ResultCount int       `json:"result_count"`
	Duration    int64     `json:"duration_ms"`
	Providers   []string  `json:"providers" gorm:"serializer:json"`
	RequestedAt time.Time `json:"requested_at" gorm:"index"`
}

// SearchCache holds a serialized ResearchResult keyed by a hash of the
// query plus the options that produced it, so an identical request within
// the TTL skips re-running the orchestrator.
type SearchCache struct {
	QueryHash   string    `json:"query_hash" gorm:"primaryKey"`
	Query       string    `json:"query"`
	Provider    string    `json:"provider"`
	ResultJSON  string    `json:"-" gorm:"type:text"`
	AccessCount int64     `json:"access_count"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at" gorm:"index"`
}

// IncrementAccess bumps the cache entry's access counter; the caller is
// responsible for persisting the change.
func (c *SearchCache) IncrementAccess() {
	c.AccessCount++
}

// SearchSuggestion is a single autocomplete candidate derived from search
// history.
type SearchSuggestion struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
	Type  string  `json:"type"`
}

package domain

// SearchCriteria is a free-text search request. It is built per request and
// consumed once by the query factory.
type SearchCriteria struct {
	Query           string        `json:"query"`
	Offset          int           `json:"offset" validate:"gte=0"`
	Count           int           `json:"count" validate:"gt=0"`
	IncludeComposer bool          `json:"include_composer"`
	Folders         []MusicFolder `json:"folders" validate:"min=1,dive"`
}

// RandomSearchCriteria selects random songs by genre and year range.
// Nil years leave that side of the range open.
type RandomSearchCriteria struct {
	Count    int           `json:"count" validate:"gt=0"`
	Genres   []string      `json:"genres,omitempty"`
	FromYear *int          `json:"from_year,omitempty"`
	ToYear   *int          `json:"to_year,omitempty"`
	Folders  []MusicFolder `json:"folders" validate:"min=1,dive"`
}

// YearRangeValid reports whether both bounds, when set, are ordered.
func (c RandomSearchCriteria) YearRangeValid() bool {
	if c.FromYear == nil || c.ToYear == nil {
		return true
	}
	return *c.FromYear <= *c.ToYear
}

// SearchHit is one ranked document.
type SearchHit struct {
	ID     string         `json:"id"`
	Score  float64        `json:"score"`
	Fields map[string]any `json:"fields,omitempty"`
}

// SearchResult is a page of ranked hits.
type SearchResult struct {
	TotalHits uint64      `json:"total_hits"`
	Offset    int         `json:"offset"`
	Hits      []SearchHit `json:"hits"`
}

package search

import (
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/listenupapp/listenup-search/internal/analyzer"
)

// Query is a boosted boolean query tree. String renders the tree in the
// classic "+field:term (a b)^2.0" syntax, which tools and tests compare
// against; Bleve converts it for execution.
type Query interface {
	String() string
	Bleve() query.Query
}

// Occur says whether a clause must match or merely adds to the score.
type Occur int

const (
	Should Occur = iota
	Must
)

// Clause is one member of a BooleanQuery.
type Clause struct {
	Occur Occur
	Query Query
}

// BooleanQuery combines clauses.
type BooleanQuery struct {
	Clauses []Clause
}

// NewBooleanQuery returns an empty boolean query.
func NewBooleanQuery() *BooleanQuery {
	return &BooleanQuery{}
}

// Add appends a clause and returns q for chaining.
func (q *BooleanQuery) Add(sub Query, occur Occur) *BooleanQuery {
	q.Clauses = append(q.Clauses, Clause{Occur: occur, Query: sub})
	return q
}

// Len returns the number of clauses.
func (q *BooleanQuery) Len() int {
	return len(q.Clauses)
}

func (q *BooleanQuery) String() string {
	parts := make([]string, 0, len(q.Clauses))
	for _, c := range q.Clauses {
		s := c.Query.String()
		if _, nested := c.Query.(*BooleanQuery); nested {
			s = "(" + s + ")"
		}
		if c.Occur == Must {
			s = "+" + s
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// Bleve maps an all-should query to a disjunction, an all-must query to a
// conjunction and anything else to a bleve boolean query. An empty query
// matches nothing.
func (q *BooleanQuery) Bleve() query.Query {
	var must, should []query.Query
	for _, c := range q.Clauses {
		if c.Occur == Must {
			must = append(must, c.Query.Bleve())
		} else {
			should = append(should, c.Query.Bleve())
		}
	}
	switch {
	case len(must) == 0 && len(should) == 0:
		return bleve.NewMatchNoneQuery()
	case len(must) == 0:
		return bleve.NewDisjunctionQuery(should...)
	case len(should) == 0:
		return bleve.NewConjunctionQuery(must...)
	default:
		return query.NewBooleanQuery(must, should, nil)
	}
}

// TermQuery matches one exact term.
type TermQuery struct {
	Field analyzer.Field
	Term  string
}

func (q *TermQuery) String() string {
	return q.Field.Name() + ":" + q.Term
}

func (q *TermQuery) Bleve() query.Query {
	tq := bleve.NewTermQuery(q.Term)
	tq.SetField(q.Field.Name())
	return tq
}

// PrefixQuery matches terms starting with Prefix.
type PrefixQuery struct {
	Field  analyzer.Field
	Prefix string
}

func (q *PrefixQuery) String() string {
	return q.Field.Name() + ":" + q.Prefix + "*"
}

func (q *PrefixQuery) Bleve() query.Query {
	pq := bleve.NewPrefixQuery(q.Prefix)
	pq.SetField(q.Field.Name())
	return pq
}

// PhraseQuery matches terms in sequence. An empty term holds the place of a
// removed stop word and matches any position; it renders as "?". Slop is
// rendered but bleve runs the phrase exactly.
type PhraseQuery struct {
	Field analyzer.Field
	Terms []string
	Slop  int
}

func (q *PhraseQuery) String() string {
	terms := make([]string, len(q.Terms))
	for i, term := range q.Terms {
		if term == "" {
			term = "?"
		}
		terms[i] = term
	}
	s := q.Field.Name() + `:"` + strings.Join(terms, " ") + `"`
	if q.Slop > 0 {
		s += "~" + strconv.Itoa(q.Slop)
	}
	return s
}

func (q *PhraseQuery) Bleve() query.Query {
	return bleve.NewPhraseQuery(q.Terms, q.Field.Name())
}

// RangeQuery matches numeric values in [Min, Max].
type RangeQuery struct {
	Field    analyzer.Field
	Min, Max int
}

func (q *RangeQuery) String() string {
	return q.Field.Name() + ":[" + strconv.Itoa(q.Min) + " TO " + strconv.Itoa(q.Max) + "]"
}

func (q *RangeQuery) Bleve() query.Query {
	lo, hi := float64(q.Min), float64(q.Max)
	inclusive := true
	rq := bleve.NewNumericRangeInclusiveQuery(&lo, &hi, &inclusive, &inclusive)
	rq.SetField(q.Field.Name())
	return rq
}

// BoostQuery scales the score of Query.
type BoostQuery struct {
	Query Query
	Boost float64
}

func (q *BoostQuery) String() string {
	return "(" + q.Query.String() + ")^" + formatBoost(q.Boost)
}

func (q *BoostQuery) Bleve() query.Query {
	inner := q.Query.Bleve()
	if b, ok := inner.(query.BoostableQuery); ok {
		b.SetBoost(q.Boost)
	}
	return inner
}

// formatBoost always keeps one decimal: 2 -> "2.0", 1.1 -> "1.1".
func formatBoost(b float64) string {
	s := strconv.FormatFloat(b, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// boosted wraps q unless the boost is neutral.
func boosted(q Query, boost float64) Query {
	if boost == 1.0 {
		return q
	}
	return &BoostQuery{Query: q, Boost: boost}
}

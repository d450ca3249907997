package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/listenup-search/internal/errors"
)

func TestParseCriteria_Predicate(t *testing.T) {
	expr, err := ParseCriteria(`dc:title contains "say \"hi\""`)
	require.NoError(t, err)

	p, ok := expr.(*Predicate)
	require.True(t, ok)
	assert.Equal(t, "dc:title", p.Property)
	assert.Equal(t, "contains", p.Operator)
	assert.Equal(t, `say "hi"`, p.Value)
}

func TestParseCriteria_Precedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`a = "1" or b = "2" and c = "3"`, "(a = 1 or (b = 2 and c = 3))"},
		{`(a = "1" or b = "2") and c = "3"`, "((a = 1 or b = 2) and c = 3)"},
		{`a = "1" and b = "2" and c = "3"`, "(a = 1 and b = 2 and c = 3)"},
		{`((a = "1"))`, "a = 1"},
		{`upnp:artist exists true`, "upnp:artist exists true"},
		{`  *  `, "*"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := ParseCriteria(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, expr.String())
		})
	}
}

func TestParseCriteria_Japanese(t *testing.T) {
	expr, err := ParseCriteria(`(upnp:class derivedfrom "object.item.audioItem" and dc:title contains "なくもんか")`)
	require.NoError(t, err)

	g, ok := expr.(*Group)
	require.True(t, ok)
	assert.Equal(t, OpAnd, g.Op)
	require.Len(t, g.Terms, 2)
	assert.Equal(t, "なくもんか", g.Terms[1].(*Predicate).Value)
}

func TestParseCriteria_Errors(t *testing.T) {
	for _, input := range []string{
		``,
		`dc:title contains "open`,
		`dc:title like "x"`,
		`dc:title contains`,
		`dc:title contains x`,
		`(dc:title contains "x"`,
		`dc:title contains "x")`,
		`dc:title contains "x" and`,
		`* and dc:title contains "x"`,
		`upnp:artist exists maybe`,
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseCriteria(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrValidation))
		})
	}
}

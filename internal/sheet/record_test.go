package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTrimsKeysAndValues(t *testing.T) {
	t.Parallel()

	raw := Record{" Title ": "  Go Basics ", "Issuer": "Coursera\n", "Date  ": ""}
	got := Normalize(raw)

	require.Equal(t, Record{"Title": "Go Basics", "Issuer": "Coursera", "Date": ""}, got)
	assert.Equal(t, "  Go Basics ", raw[" Title "], "input must not be mutated")
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []Record{
		{},
		{"a": "b"},
		{"  spaced key": "\tvalue\t", "plain": "plain"},
		{"Title": "", "Title ": "kept"},
	}
	for _, raw := range inputs {
		once := Normalize(raw)
		twice := Normalize(once)
		assert.Equal(t, once, twice)
	}
}

func TestNormalizeCollidingKeysPreferNonEmpty(t *testing.T) {
	t.Parallel()

	got := Normalize(Record{"Title": "", " Title": "Real"})
	assert.Equal(t, Record{"Title": "Real"}, got)
}

func TestHeadersUnionSorted(t *testing.T) {
	t.Parallel()

	rows := []Record{{"b": "1", "a": "2"}, {"c": "3"}}
	assert.Equal(t, []string{"a", "b", "c"}, Headers(rows))
	assert.Empty(t, Headers(nil))
}

func TestColumnsMissingSkipsOptional(t *testing.T) {
	t.Parallel()

	cols := DefaultColumns()
	headers := []string{}
	for _, f := range cols.Fields() {
		if f.Name == "cert_date" || f.Optional {
			continue
		}
		headers = append(headers, " "+f.Header+" ")
	}

	missing := cols.Missing(headers)
	require.Len(t, missing, 1)
	assert.Equal(t, "cert_date", missing[0].Name)
	assert.Equal(t, "Date", missing[0].Header)
}

func TestColumnsTrimmed(t *testing.T) {
	t.Parallel()

	cols := DefaultColumns()
	cols.Type = "  What do you want to add? "
	assert.Equal(t, "What do you want to add?", cols.Trimmed().Type)
}

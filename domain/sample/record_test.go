package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_Find(t *testing.T) {
	s := NewStore([]Record{
		NewRecord("cohere", "e3cb621a", "Software Engineer", "$100,000"),
		NewRecord("cohere", "ffff", "Designer", "$80,000"),
		NewRecord("cohere", "e3cb621a", "Duplicate", "$1"),
	})

	r, ok := s.Find("cohere", "e3cb621a")
	assert.True(t, ok)
	assert.Equal(t, "Software Engineer", r.Role())
	assert.Equal(t, "$100,000", r.Salary())

	_, ok = s.Find("Cohere", "e3cb621a")
	assert.False(t, ok, "match is case sensitive")

	_, ok = s.Find("invalid", "unknown")
	assert.False(t, ok)
	assert.Equal(t, 3, s.Len())
}

func TestStore_Empty(t *testing.T) {
	var s Store
	_, ok := s.Find("a", "b")
	assert.False(t, ok)
	assert.Empty(t, s.Records())
}

func TestNewStore_Copies(t *testing.T) {
	records := []Record{NewRecord("b", "1", "r", "$1")}
	s := NewStore(records)
	records[0] = NewRecord("x", "x", "x", "x")

	_, ok := s.Find("b", "1")
	assert.True(t, ok)
}

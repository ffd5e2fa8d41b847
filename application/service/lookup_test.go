package service

import (
	"testing"

	"github.com/helixml/salary/domain/sample"
	"github.com/helixml/salary/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_Find(t *testing.T) {
	l := NewLookup(sample.NewStore([]sample.Record{
		sample.NewRecord("cohere", "e3cb621a-75b8-467c-803c-4325fb0c1301", "Software Engineer", "$100,000"),
	}))
	assert.Equal(t, 1, l.Len())

	r, err := l.Find("cohere", "e3cb621a-75b8-467c-803c-4325fb0c1301")
	require.NoError(t, err)
	assert.Equal(t, "Software Engineer", r.Role())
	assert.Equal(t, "$100,000", r.Salary())

	_, err = l.Find("cohere", "nonexistent")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Posting not found", err.Error())

	_, err = l.Find("Cohere", "e3cb621a-75b8-467c-803c-4325fb0c1301")
	assert.ErrorIs(t, err, domain.ErrNotFound, "matching is case sensitive")
}

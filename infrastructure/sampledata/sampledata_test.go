package sampledata_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/helixml/salary/infrastructure/sampledata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundled(t *testing.T) {
	store, err := sampledata.Bundled()
	require.NoError(t, err)

	r, ok := store.Find("cohere", "e3cb621a-75b8-467c-803c-4325fb0c1301")
	require.True(t, ok)
	assert.Equal(t, "Software Engineer", r.Role())
	assert.Equal(t, "$100,000", r.Salary())

	_, ok = store.Find("cohere", "missing")
	assert.False(t, ok)
}

func TestLoad_JSONFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"data":[
		{"board_name":"acme","postingid":"1","role":"Chef","salary":"$40,000"},
		{"board_name":"acme","postingid":"2","role":"Baker","salary":"$35,000"}
	]}`), 0o644))

	store := sampledata.Load(p, nil)
	assert.Equal(t, 2, store.Len())
	r, ok := store.Find("acme", "2")
	require.True(t, ok)
	assert.Equal(t, "Baker", r.Role())
}

func TestLoad_YAMLFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "data.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`data:
  - board_name: acme
    postingid: "42"
    role: Welder
    salary: "$52,500"
`), 0o644))

	store := sampledata.Load(p, nil)
	r, ok := store.Find("acme", "42")
	require.True(t, ok)
	assert.Equal(t, "$52,500", r.Salary())
}

func TestLoad_MissingKeyIsEmpty(t *testing.T) {
	p := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"records":[]}`), 0o644))

	assert.Equal(t, 0, sampledata.Load(p, nil).Len())
}

func TestLoad_FailuresYieldEmptyStore(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{"), 0o644))

	for _, p := range []string{filepath.Join(dir, "absent.json"), corrupt} {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		store := sampledata.Load(p, logger)
		assert.Equal(t, 0, store.Len())
		assert.Contains(t, buf.String(), "failed to load sample data")
	}
}

func TestLoad_EmptyPathUsesBundled(t *testing.T) {
	assert.Equal(t, 1, sampledata.Load("", nil).Len())
}

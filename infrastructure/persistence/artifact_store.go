package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/helixml/salary/domain/feature"
	"github.com/helixml/salary/domain/model"
	"github.com/helixml/salary/domain/regression"
)

const artifactVersion = 1

// artifactFile is the on-disk layout of a model artifact.
type artifactFile struct {
	Version      int                  `json:"version"`
	TrainedAt    time.Time            `json:"trained_at"`
	Params       regression.Params    `json:"params"`
	Width        int                  `json:"width"`
	Trees        [][]regression.Node  `json:"trees"`
	Vocabularies feature.Vocabularies `json:"vocabularies"`
	Metrics      regression.Metrics   `json:"metrics"`
	TrainRows    int                  `json:"train_rows"`
	TestRows     int                  `json:"test_rows"`
}

// ArtifactStore keeps the trained model in a single JSON file.
type ArtifactStore struct {
	path string
}

// NewArtifactStore creates an ArtifactStore for path.
func NewArtifactStore(path string) ArtifactStore {
	return ArtifactStore{path: path}
}

// Path returns the artifact file path.
func (s ArtifactStore) Path() string { return s.path }

// Save writes the artifact to a temporary file next to the target and
// renames it into place, so readers never observe a partial file.
func (s ArtifactStore) Save(_ context.Context, a *model.Artifact) error {
	forest := a.Forest()
	trees := forest.Trees()
	doc := artifactFile{
		Version:      artifactVersion,
		TrainedAt:    a.TrainedAt().UTC(),
		Params:       forest.Params(),
		Width:        forest.Width(),
		Trees:        make([][]regression.Node, len(trees)),
		Vocabularies: a.Encoders().Vocabularies(),
		Metrics:      a.Metrics(),
		TrainRows:    a.TrainRows(),
		TestRows:     a.TestRows(),
	}
	for i, t := range trees {
		doc.Trees[i] = t.Nodes()
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".artifact-*.json")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := json.NewEncoder(tmp).Encode(doc); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace artifact: %w", err)
	}
	return nil
}

// Load reads the artifact. It reports false with a nil error when no
// artifact has been saved yet.
func (s ArtifactStore) Load(_ context.Context) (*model.Artifact, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read artifact: %w", err)
	}

	var doc artifactFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("decode artifact: %w", err)
	}
	if doc.Version != artifactVersion {
		return nil, false, fmt.Errorf("unsupported artifact version %d", doc.Version)
	}

	forest, err := regression.RestoreForest(doc.Params, doc.Width, doc.Trees)
	if err != nil {
		return nil, false, fmt.Errorf("restore artifact: %w", err)
	}
	encoders, err := feature.RestoreEncoders(doc.Vocabularies)
	if err != nil {
		return nil, false, fmt.Errorf("restore artifact: %w", err)
	}

	a, err := model.NewArtifact(forest, encoders, doc.Metrics, doc.TrainedAt, doc.TrainRows, doc.TestRows)
	if err != nil {
		return nil, false, err
	}
	return a, true, nil
}

// Package sampledata loads the static salary lookup dataset.
package sampledata

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/helixml/salary/domain/sample"
	"gopkg.in/yaml.v3"
)

//go:embed sample_data.json
var bundled []byte

type document struct {
	Data []entry `json:"data" yaml:"data"`
}

type entry struct {
	BoardName string `json:"board_name" yaml:"board_name"`
	PostingID string `json:"postingid" yaml:"postingid"`
	Role      string `json:"role" yaml:"role"`
	Salary    string `json:"salary" yaml:"salary"`
}

// Parse decodes a sample dataset. YAML is used when the name ends in .yaml
// or .yml, JSON otherwise.
func Parse(name string, data []byte) (sample.Store, error) {
	var doc document
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return sample.Store{}, fmt.Errorf("parse %s: %w", name, err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return sample.Store{}, fmt.Errorf("parse %s: %w", name, err)
		}
	}

	records := make([]sample.Record, 0, len(doc.Data))
	for _, e := range doc.Data {
		records = append(records, sample.NewRecord(e.BoardName, e.PostingID, e.Role, e.Salary))
	}
	return sample.NewStore(records), nil
}

// Bundled returns the dataset compiled into the binary.
func Bundled() (sample.Store, error) {
	return Parse("sample_data.json", bundled)
}

// Load reads the dataset at path, or the bundled dataset when path is empty.
// A missing or unreadable file is logged and yields an empty store so the
// service can still start.
func Load(path string, logger *slog.Logger) sample.Store {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		store sample.Store
		err   error
	)
	if path == "" {
		store, err = Bundled()
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		if err == nil {
			store, err = Parse(path, data)
		}
	}
	if err != nil {
		logger.Error("failed to load sample data", slog.String("path", path), slog.Any("error", err))
		return sample.NewStore(nil)
	}

	logger.Info("sample data loaded", slog.String("path", path), slog.Int("records", store.Len()))
	return store
}

package service

import (
	"github.com/helixml/salary/domain/sample"
	"github.com/helixml/salary/internal/domain"
)

// Lookup answers salary queries from the static sample dataset.
type Lookup struct {
	store sample.Store
}

// NewLookup creates a Lookup over store.
func NewLookup(store sample.Store) *Lookup {
	return &Lookup{store: store}
}

// Find returns the record for a board and posting ID.
func (l *Lookup) Find(boardName, postingID string) (sample.Record, error) {
	r, ok := l.store.Find(boardName, postingID)
	if !ok {
		return sample.Record{}, domain.NotFoundf("Posting not found")
	}
	return r, nil
}

// Len returns the number of records available.
func (l *Lookup) Len() int { return l.store.Len() }

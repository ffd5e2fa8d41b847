// Package sample holds the static salary records served by the lookup API.
package sample

// Record is one recorded salary for a posting on a job board.
type Record struct {
	boardName string
	postingID string
	role      string
	salary    string
}

// NewRecord creates a Record.
func NewRecord(boardName, postingID, role, salary string) Record {
	return Record{
		boardName: boardName,
		postingID: postingID,
		role:      role,
		salary:    salary,
	}
}

// BoardName returns the job board name.
func (r Record) BoardName() string { return r.boardName }

// PostingID returns the posting identifier on the board.
func (r Record) PostingID() string { return r.postingID }

// Role returns the role title.
func (r Record) Role() string { return r.role }

// Salary returns the recorded salary as displayed, e.g. "$100,000".
func (r Record) Salary() string { return r.salary }

// Store is an immutable set of records.
type Store struct {
	records []Record
}

// NewStore creates a Store holding a copy of records.
func NewStore(records []Record) Store {
	return Store{records: append([]Record(nil), records...)}
}

// Find returns the first record whose board and posting ID match exactly.
func (s Store) Find(boardName, postingID string) (Record, bool) {
	for _, r := range s.records {
		if r.boardName == boardName && r.postingID == postingID {
			return r, true
		}
	}
	return Record{}, false
}

// Len returns the number of records.
func (s Store) Len() int { return len(s.records) }

// Records returns a copy of every record in load order.
func (s Store) Records() []Record {
	return append([]Record(nil), s.records...)
}

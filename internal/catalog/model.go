package catalog

import "context"

// Sequence pairs a played beginning with its hidden correct ending for a
// level. The ending is server-only.
type Sequence struct {
	ID        string `json:"id"`
	Level     int    `json:"level"`
	Beginning []Note `json:"beginning"`
	Ending    []Note `json:"-"`
}

// ExpectedSlots is the number of answer slots the player must fill.
func (s *Sequence) ExpectedSlots() int {
	return len(s.Ending)
}

// Catalog is the read-only source of sequences.
type Catalog interface {
	Get(ctx context.Context, id string) (*Sequence, error)
	ListByLevel(ctx context.Context, level int) ([]Sequence, error)
}

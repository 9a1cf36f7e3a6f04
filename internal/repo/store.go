package repo

import (
	"context"
	"errors"
)

var ErrCorruptRow = errors.New("corrupt row")

// Store persists the full marketplace state. Save always writes a complete
// snapshot of every table; there is no incremental write.
type Store interface {
	Load(ctx context.Context) (*Tables, error)
	Save(ctx context.Context, t *Tables) error
}

// Package idgen hands out fixed-width numeric identifiers that are unique
// within a single table.
package idgen

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"sync"
)

const (
	minID = 100000
	maxID = 999999
	// Space is the number of distinct identifiers available per table.
	Space = maxID - minID + 1
)

var ErrExhausted = errors.New("id space exhausted")

// Keys is the current key set of one table.
type Keys interface {
	Has(id string) bool
	Len() int
}

type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeeded returns a deterministic generator, used by tests.
func NewSeeded(seed uint64) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed, seed))}
}

// Next draws six-digit candidates until one is absent from keys. The key set
// is consulted on every call since tables change between calls.
func (g *Generator) Next(keys Keys) (string, error) {
	if keys.Len() >= Space {
		return "", ErrExhausted
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for {
		id := strconv.Itoa(minID + g.rnd.IntN(Space))
		if !keys.Has(id) {
			return id, nil
		}
	}
}

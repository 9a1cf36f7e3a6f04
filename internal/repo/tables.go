package repo

import "github.com/haomeng346/Second-hand-Marketplace/internal/models"

// Table is a keyed table that remembers insertion order.
type Table[T any] struct {
	order []string
	rows  map[string]*T
}

func NewTable[T any]() *Table[T] {
	return &Table[T]{rows: make(map[string]*T)}
}

func (t *Table[T]) Get(id string) (*T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *Table[T]) Has(id string) bool {
	_, ok := t.rows[id]
	return ok
}

func (t *Table[T]) Len() int { return len(t.rows) }

// Put stores v under id. Replacing an existing id keeps its position.
func (t *Table[T]) Put(id string, v *T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *Table[T]) Keys() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Values returns the stored pointers in insertion order.
func (t *Table[T]) Values() []*T {
	out := make([]*T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

// Tables is the whole marketplace state: one table per entity type.
type Tables struct {
	Users    *Table[models.User]
	Items    *Table[models.Item]
	Listings *Table[models.Listing]
	Orders   *Table[models.Order]
}

func NewTables() *Tables {
	return &Tables{
		Users:    NewTable[models.User](),
		Items:    NewTable[models.Item](),
		Listings: NewTable[models.Listing](),
		Orders:   NewTable[models.Order](),
	}
}

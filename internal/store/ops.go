package store

import "github.com/google/uuid"

type opKind uint8

const (
	opCreate opKind = iota
	opSet
	opDelete
)

type operation struct {
	id    uuid.UUID
	kind  opKind
	field string
	value string
}

// Operations buffers record mutations until [Store.Commit] applies them as
// one atomic group. The zero value is ready to use. Operations apply in
// append order; the last write to a field wins.
type Operations struct {
	ops []operation
}

// Create buffers the creation of an empty record under id.
func (o *Operations) Create(id uuid.UUID) {
	o.ops = append(o.ops, operation{id: id, kind: opCreate})
}

// Set buffers a field write.
func (o *Operations) Set(id uuid.UUID, field, value string) {
	o.ops = append(o.ops, operation{id: id, kind: opSet, field: field, value: value})
}

// Delete buffers a field removal. Removing an absent field is a no-op.
func (o *Operations) Delete(id uuid.UUID, field string) {
	o.ops = append(o.ops, operation{id: id, kind: opDelete, field: field})
}

// Empty reports whether no operations are buffered.
func (o *Operations) Empty() bool {
	return o == nil || len(o.ops) == 0
}

package store

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Record is one task record as read from the store: an identifier plus a
// flat field map. Records are read-only snapshots; mutations go through
// [Operations].
type Record struct {
	ID     uuid.UUID
	fields map[string]string
}

// NewRecord builds a record from a field map. Intended for tests.
func NewRecord(id uuid.UUID, fields map[string]string) *Record {
	if fields == nil {
		fields = make(map[string]string)
	}

	return &Record{ID: id, fields: fields}
}

// Field returns a field value and whether it is present.
func (r *Record) Field(name string) (string, bool) {
	v, ok := r.fields[name]

	return v, ok
}

// Tags returns the names of all tag fields, sorted.
func (r *Record) Tags() []string {
	var tags []string

	for name := range r.fields {
		if tag, ok := strings.CutPrefix(name, tagPrefix); ok {
			tags = append(tags, tag)
		}
	}

	sort.Strings(tags)

	return tags
}

// HasTag reports whether the record carries the named tag.
func (r *Record) HasTag(name string) bool {
	_, ok := r.fields[TagField(name)]

	return ok
}

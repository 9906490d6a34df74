// Package transcript holds the editable segment collection and its
// plain-text export. The store applies field edits immutably: every edit
// produces a fresh collection with one element substituted.
package transcript

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/PlatDrake2875/diarization/types"
)

// Field names a user-editable segment field.
type Field string

const (
	FieldSpeaker Field = "speaker"
	FieldText    Field = "text"
)

// NotFoundError reports an edit against a segment identity that is not in
// the current collection. This is a contract violation by the caller, not
// a condition to paper over.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no segment with id %q", e.ID)
}

// Store holds the current ordered segment collection.
type Store struct {
	segments []types.Segment
	onChange func([]types.Segment)
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// OnChange registers a callback invoked with the full collection after
// every ingest, clear, or field edit.
func (s *Store) OnChange(fn func([]types.Segment)) {
	s.onChange = fn
}

// Segments returns a copy of the held collection.
func (s *Store) Segments() []types.Segment {
	out := make([]types.Segment, len(s.segments))
	copy(out, s.segments)
	return out
}

// Len reports the number of held segments.
func (s *Store) Len() int { return len(s.segments) }

// Clear drops the held collection.
func (s *Store) Clear() {
	s.segments = nil
	s.notify()
}

// Ingest replaces the collection wholesale. Producer-supplied ids are
// kept; segments without one get a synthesized id unique within the batch.
func (s *Store) Ingest(segments []types.Segment) {
	held := make([]types.Segment, len(segments))
	copy(held, segments)
	for i := range held {
		if held[i].ID == "" {
			held[i].ID = fmt.Sprintf("seg-%d-%s", i, uuid.NewString())
		}
	}
	s.segments = held
	s.notify()
}

// UpdateField replaces one field of the segment with the given id and
// returns the full updated collection. Order and all other fields are
// preserved.
func (s *Store) UpdateField(id string, field Field, value string) ([]types.Segment, error) {
	idx := -1
	for i := range s.segments {
		if s.segments[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &NotFoundError{ID: id}
	}

	next := make([]types.Segment, len(s.segments))
	copy(next, s.segments)
	switch field {
	case FieldSpeaker:
		next[idx].Speaker = value
	case FieldText:
		next[idx].Text = value
	default:
		return nil, fmt.Errorf("field %q is not editable", field)
	}
	s.segments = next
	s.notify()
	return s.Segments(), nil
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange(s.Segments())
	}
}

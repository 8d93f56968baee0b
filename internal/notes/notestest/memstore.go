// Package notestest provides an in-memory notes.Store for tests.
package notestest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"notesapp/internal/notes"
)

type entry struct {
	note notes.Note
	seq  int
}

// MemStore mirrors notes.Repo semantics: owner-scoped lookups, pinned-first
// ordering with newest first inside each group.
type MemStore struct {
	mu    sync.Mutex
	seq   int
	notes map[primitive.ObjectID]*entry
}

func NewMemStore() *MemStore {
	return &MemStore{notes: make(map[primitive.ObjectID]*entry)}
}

func (m *MemStore) Insert(ctx context.Context, n *notes.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	n.ID = primitive.NewObjectID()
	n.CreatedOn = time.Now().UTC().Truncate(time.Millisecond)
	n.UpdatedOn = n.CreatedOn
	if n.Tags == nil {
		n.Tags = []string{}
	}
	m.notes[n.ID] = &entry{note: clone(*n), seq: m.seq}
	return nil
}

func (m *MemStore) Find(ctx context.Context, owner, id primitive.ObjectID) (*notes.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.owned(owner, id)
	if !ok {
		return nil, notes.ErrNoteNotFound
	}
	n := clone(e.note)
	return &n, nil
}

func (m *MemStore) List(ctx context.Context, owner primitive.ObjectID) ([]*notes.Note, error) {
	return m.filter(owner, func(*notes.Note) bool { return true }), nil
}

func (m *MemStore) Search(ctx context.Context, owner primitive.ObjectID, query string) ([]*notes.Note, error) {
	q := strings.ToLower(query)
	return m.filter(owner, func(n *notes.Note) bool {
		if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
			return true
		}
		for _, t := range n.Tags {
			if strings.Contains(strings.ToLower(t), q) {
				return true
			}
		}
		return false
	}), nil
}

func (m *MemStore) Update(ctx context.Context, owner, id primitive.ObjectID, in notes.EditNoteInput) (*notes.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.owned(owner, id)
	if !ok {
		return nil, notes.ErrNoteNotFound
	}
	if in.Title != nil {
		e.note.Title = *in.Title
	}
	if in.Content != nil {
		e.note.Content = *in.Content
	}
	if in.Tags != nil {
		e.note.Tags = append([]string{}, (*in.Tags)...)
	}
	if in.IsPinned != nil {
		e.note.IsPinned = *in.IsPinned
	}
	e.note.UpdatedOn = time.Now().UTC().Truncate(time.Millisecond)
	n := clone(e.note)
	return &n, nil
}

func (m *MemStore) Delete(ctx context.Context, owner, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.owned(owner, id); !ok {
		return notes.ErrNoteNotFound
	}
	delete(m.notes, id)
	return nil
}

// Len returns the number of stored notes across all owners.
func (m *MemStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.notes)
}

func (m *MemStore) owned(owner, id primitive.ObjectID) (*entry, bool) {
	e, ok := m.notes[id]
	if !ok || e.note.UserID != owner {
		return nil, false
	}
	return e, true
}

func (m *MemStore) filter(owner primitive.ObjectID, keep func(*notes.Note) bool) []*notes.Note {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*entry
	for _, e := range m.notes {
		if e.note.UserID == owner && keep(&e.note) {
			matched = append(matched, e)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].note.IsPinned != matched[j].note.IsPinned {
			return matched[i].note.IsPinned
		}
		return matched[i].seq > matched[j].seq
	})

	out := make([]*notes.Note, 0, len(matched))
	for _, e := range matched {
		n := clone(e.note)
		out = append(out, &n)
	}
	return out
}

func clone(n notes.Note) notes.Note {
	n.Tags = append([]string{}, n.Tags...)
	return n
}

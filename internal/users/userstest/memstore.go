// Package userstest provides an in-memory users.Store for tests.
package userstest

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"notesapp/internal/users"
)

// MemStore mirrors users.Repo semantics, including the unique email index.
type MemStore struct {
	mu      sync.Mutex
	byID    map[primitive.ObjectID]*users.User
	byEmail map[string]primitive.ObjectID
}

func NewMemStore() *MemStore {
	return &MemStore{
		byID:    make(map[primitive.ObjectID]*users.User),
		byEmail: make(map[string]primitive.ObjectID),
	}
}

func (m *MemStore) Insert(ctx context.Context, u *users.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[u.Email]; ok {
		return users.ErrEmailTaken
	}
	u.ID = primitive.NewObjectID()
	u.CreatedOn = time.Now().UTC().Truncate(time.Millisecond)
	cp := *u
	m.byID[u.ID] = &cp
	m.byEmail[u.Email] = u.ID
	return nil
}

func (m *MemStore) FindByID(ctx context.Context, id primitive.ObjectID) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemStore) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	m.mu.Lock()
	id, ok := m.byEmail[email]
	m.mu.Unlock()
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return m.FindByID(ctx, id)
}

// Delete removes a user, simulating an account dropped after a token was issued.
func (m *MemStore) Delete(id primitive.ObjectID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		delete(m.byEmail, u.Email)
		delete(m.byID, id)
	}
}

package notes

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"notesapp/internal/apperr"
	"notesapp/internal/validate"
)

// Store is the owner-scoped note store. *Repo implements it.
type Store interface {
	Insert(ctx context.Context, n *Note) error
	Find(ctx context.Context, owner, id primitive.ObjectID) (*Note, error)
	List(ctx context.Context, owner primitive.ObjectID) ([]*Note, error)
	Search(ctx context.Context, owner primitive.ObjectID, query string) ([]*Note, error)
	Update(ctx context.Context, owner, id primitive.ObjectID, in EditNoteInput) (*Note, error)
	Delete(ctx context.Context, owner, id primitive.ObjectID) error
}

type Service struct {
	store Store
	md    goldmark.Markdown
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Create adds a note owned by owner
func (s *Service) Create(ctx context.Context, owner primitive.ObjectID, input AddNoteInput) (*Note, error) {
	input.Title = strings.TrimSpace(input.Title)
	if strings.TrimSpace(input.Content) == "" {
		input.Content = ""
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	note := &Note{
		Title:   input.Title,
		Content: input.Content,
		Tags:    cleanTags(input.Tags),
		UserID:  owner,
	}
	if err := s.store.Insert(ctx, note); err != nil {
		return nil, apperr.NewInternal("add note", err)
	}
	return note, nil
}

// Get retrieves one of owner's notes
func (s *Service) Get(ctx context.Context, owner primitive.ObjectID, id string) (*Note, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	note, err := s.store.Find(ctx, owner, oid)
	if err != nil {
		return nil, notFoundOr("get note", err)
	}
	return withTags(note), nil
}

// Edit applies a partial update. Fields absent from input keep their value.
func (s *Service) Edit(ctx context.Context, owner primitive.ObjectID, id string, input EditNoteInput) (*Note, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		t := strings.TrimSpace(*input.Title)
		if t == "" {
			return nil, apperr.NewValidation("title cannot be empty")
		}
		input.Title = &t
	}
	if input.Content != nil && strings.TrimSpace(*input.Content) == "" {
		return nil, apperr.NewValidation("content cannot be empty")
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if input.Tags != nil {
		tags := cleanTags(*input.Tags)
		input.Tags = &tags
	}

	if input.empty() {
		note, err := s.store.Find(ctx, owner, oid)
		if err != nil {
			return nil, notFoundOr("edit note", err)
		}
		return withTags(note), nil
	}

	note, err := s.store.Update(ctx, owner, oid, input)
	if err != nil {
		return nil, notFoundOr("edit note", err)
	}
	return withTags(note), nil
}

// SetPinned changes only the pin flag
func (s *Service) SetPinned(ctx context.Context, owner primitive.ObjectID, id string, pinned bool) (*Note, error) {
	return s.Edit(ctx, owner, id, EditNoteInput{IsPinned: &pinned})
}

// List returns all of owner's notes, pinned first
func (s *Service) List(ctx context.Context, owner primitive.ObjectID) ([]*Note, error) {
	notes, err := s.store.List(ctx, owner)
	if err != nil {
		return nil, apperr.NewInternal("list notes", err)
	}
	for _, n := range notes {
		withTags(n)
	}
	return notes, nil
}

// Search returns owner's notes whose title, content or tags contain query
func (s *Service) Search(ctx context.Context, owner primitive.ObjectID, query string) ([]*Note, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.NewValidation("Search query is required")
	}
	notes, err := s.store.Search(ctx, owner, query)
	if err != nil {
		return nil, apperr.NewInternal("search notes", err)
	}
	for _, n := range notes {
		withTags(n)
	}
	return notes, nil
}

// Delete removes one of owner's notes
func (s *Service) Delete(ctx context.Context, owner primitive.ObjectID, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, owner, oid); err != nil {
		return notFoundOr("delete note", err)
	}
	return nil
}

// RenderMarkdown converts markdown content to HTML. Raw HTML in the source
// is not passed through.
func (s *Service) RenderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(content), &buf); err != nil {
		return content
	}
	return buf.String()
}

// Render returns one of owner's notes together with its rendered content
func (s *Service) Render(ctx context.Context, owner primitive.ObjectID, id string) (*Note, string, error) {
	note, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, "", err
	}
	return note, s.RenderMarkdown(note.Content), nil
}

// parseID rejects malformed ids as NotFound: no owned note can have one.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.NewNotFound("Note not Found")
	}
	return oid, nil
}

func notFoundOr(op string, err error) error {
	if errors.Is(err, ErrNoteNotFound) {
		return apperr.NewNotFound("Note not Found")
	}
	return apperr.NewInternal(op, err)
}

func withTags(n *Note) *Note {
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return n
}

// cleanTags trims tags and drops empty and repeated ones, keeping order.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

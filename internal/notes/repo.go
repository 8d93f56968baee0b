package notes

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNoteNotFound = errors.New("note not found")
)

// pinnedFirst orders pinned notes before unpinned ones, newest first within
// each group.
var pinnedFirst = bson.D{
	{Key: "isPinned", Value: -1},
	{Key: "createdOn", Value: -1},
}

// Repo is the note store. Every query is filtered by owner; there is no
// method that reads or writes a note by id alone.
type Repo struct {
	coll *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{coll: db.Collection("notes")}
}

// EnsureIndexes creates necessary indexes for the notes collection
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "isPinned", Value: -1},
				{Key: "createdOn", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "Tags", Value: 1},
			},
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// Insert creates a new note
func (r *Repo) Insert(ctx context.Context, n *Note) error {
	n.ID = primitive.NewObjectID()
	n.CreatedOn = time.Now().UTC()
	n.UpdatedOn = n.CreatedOn
	if n.Tags == nil {
		n.Tags = []string{}
	}

	_, err := r.coll.InsertOne(ctx, n)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// Find retrieves a note by id if owner owns it
func (r *Repo) Find(ctx context.Context, owner, id primitive.ObjectID) (*Note, error) {
	var note Note
	err := r.coll.FindOne(ctx, ownedBy(owner, id)).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find note %s: %w", id.Hex(), err)
	}
	return &note, nil
}

// List retrieves all of owner's notes, pinned first
func (r *Repo) List(ctx context.Context, owner primitive.ObjectID) ([]*Note, error) {
	return r.find(ctx, bson.M{"userId": owner})
}

// Search matches query case-insensitively against title, content and tags
func (r *Repo) Search(ctx context.Context, owner primitive.ObjectID, query string) ([]*Note, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"userId": owner,
		"$or": bson.A{
			bson.M{"Title": pattern},
			bson.M{"Content": pattern},
			bson.M{"Tags": pattern},
		},
	}
	return r.find(ctx, filter)
}

func (r *Repo) find(ctx context.Context, filter bson.M) ([]*Note, error) {
	opts := options.Find().SetSort(pinnedFirst)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer cursor.Close(ctx)

	notes := []*Note{}
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	return notes, nil
}

// Update applies the non-nil fields of in to owner's note and returns the
// note as stored afterwards. Matching and writing happen in one call.
func (r *Repo) Update(ctx context.Context, owner, id primitive.ObjectID, in EditNoteInput) (*Note, error) {
	set := bson.M{"updatedOn": time.Now().UTC()}
	if in.Title != nil {
		set["Title"] = *in.Title
	}
	if in.Content != nil {
		set["Content"] = *in.Content
	}
	if in.Tags != nil {
		set["Tags"] = *in.Tags
	}
	if in.IsPinned != nil {
		set["isPinned"] = *in.IsPinned
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var note Note
	err := r.coll.FindOneAndUpdate(ctx, ownedBy(owner, id), bson.M{"$set": set}, opts).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update note %s: %w", id.Hex(), err)
	}
	return &note, nil
}

// Delete removes owner's note by id
func (r *Repo) Delete(ctx context.Context, owner, id primitive.ObjectID) error {
	result, err := r.coll.DeleteOne(ctx, ownedBy(owner, id))
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func ownedBy(owner, id primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "userId": owner}
}

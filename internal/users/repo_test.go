package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert assigns id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewRepo(mt.DB)

		u := &User{Name: "Amy", Email: "a@x.com", Password: "hash"}
		require.NoError(mt, repo.Insert(context.Background(), u))
		assert.False(mt, u.ID.IsZero())
		assert.False(mt, u.CreatedOn.IsZero())
	})

	mt.Run("insert duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: notes-app.users index: email_unique",
		}))
		repo := NewRepo(mt.DB)

		err := repo.Insert(context.Background(), &User{Name: "Amy", Email: "a@x.com"})
		assert.ErrorIs(mt, err, ErrEmailTaken)
	})

	mt.Run("find by email", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "notes-app.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "Name", Value: "Amy"},
			{Key: "Email", Value: "a@x.com"},
			{Key: "Password", Value: "hash"},
			{Key: "createdOn", Value: created},
		}))
		repo := NewRepo(mt.DB)

		u, err := repo.FindByEmail(context.Background(), "a@x.com")
		require.NoError(mt, err)
		assert.Equal(mt, id, u.ID)
		assert.Equal(mt, "Amy", u.Name)
		assert.Equal(mt, "hash", u.Password)
		assert.True(mt, created.Equal(u.CreatedOn))
	})

	mt.Run("find by id missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "notes-app.users", mtest.FirstBatch))
		repo := NewRepo(mt.DB)

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, ErrUserNotFound)
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewRepo(mt.DB)

		assert.NoError(mt, repo.EnsureIndexes(context.Background()))
	})
}

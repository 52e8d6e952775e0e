package repository

import (
	"context"
	"testing"
	"time"

	"layer-backend/errs"
	"layer-backend/models"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoCommunityRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "layer." + CommunityCollection
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mt.Run("list", func(mt *mtest.T) {
		repo := NewMongoCommunityRepositoryFromCollection(mt.Coll)
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "2"}, {Key: "title", Value: "Newer"}, {Key: "author", Value: "b"}, {Key: "likes", Value: 3}, {Key: "timestamp", Value: ts}},
			bson.D{{Key: "_id", Value: "1"}, {Key: "title", Value: "Older"}, {Key: "author", Value: "a"}, {Key: "likes", Value: 0}, {Key: "timestamp", Value: ts.Add(-time.Hour)}},
		)
		end := mtest.CreateCursorResponse(0, ns, mtest.NextBatch)
		mt.AddMockResponses(first, end)

		posts, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, posts, 2)
		require.Equal(t, "Newer", posts[0].Title)
		require.Equal(t, 3, posts[0].Likes)
	})

	mt.Run("get missing", func(mt *mtest.T) {
		repo := NewMongoCommunityRepositoryFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), "nope")
		require.ErrorIs(t, err, errs.ErrNotFound)
	})

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoCommunityRepositoryFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := repo.Create(context.Background(), &models.CommunityPost{ID: "9", Title: "Linen Summer", Timestamp: ts})
		require.NoError(t, err)
	})

	mt.Run("create duplicate", func(mt *mtest.T) {
		repo := NewMongoCommunityRepositoryFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		err := repo.Create(context.Background(), &models.CommunityPost{ID: "9"})
		require.ErrorIs(t, err, errs.ErrAlreadyExists)
	})
}

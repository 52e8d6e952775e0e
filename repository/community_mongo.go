package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"layer-backend/errs"
	"layer-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommunityCollection is the MongoDB collection holding feed posts
const CommunityCollection = "community_posts"

// ConnectMongo opens and pings a MongoDB client
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// MongoCommunityRepository stores the feed in MongoDB
type MongoCommunityRepository struct {
	coll *mongo.Collection
}

// NewMongoCommunityRepository uses the community collection of database
func NewMongoCommunityRepository(db *mongo.Database) *MongoCommunityRepository {
	return &MongoCommunityRepository{coll: db.Collection(CommunityCollection)}
}

// NewMongoCommunityRepositoryFromCollection wraps an existing collection handle
func NewMongoCommunityRepositoryFromCollection(coll *mongo.Collection) *MongoCommunityRepository {
	return &MongoCommunityRepository{coll: coll}
}

// List returns all posts, newest first
func (r *MongoCommunityRepository) List(ctx context.Context) ([]*models.CommunityPost, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := make([]*models.CommunityPost, 0)
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

// GetByID finds a post
func (r *MongoCommunityRepository) GetByID(ctx context.Context, id string) (*models.CommunityPost, error) {
	post := &models.CommunityPost{}
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	return post, nil
}

// Create inserts a post
func (r *MongoCommunityRepository) Create(ctx context.Context, post *models.CommunityPost) error {
	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.ErrAlreadyExists
		}
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// EnsureSeeded inserts seed posts when the collection is empty
func (r *MongoCommunityRepository) EnsureSeeded(ctx context.Context, seed []models.CommunityPost) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return false, fmt.Errorf("count posts: %w", err)
	}
	if n > 0 || len(seed) == 0 {
		return false, nil
	}

	docs := make([]interface{}, 0, len(seed))
	for i := range seed {
		docs = append(docs, seed[i])
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return false, fmt.Errorf("seed posts: %w", err)
	}
	return true, nil
}

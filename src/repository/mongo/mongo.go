// Package mongo stores the catalog in MongoDB collections memes and contestants.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/memecontest/backend/src/domain"
	"github.com/memecontest/backend/src/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	MemesCollection       = "memes"
	ContestantsCollection = "contestants"
)

// Connect opens a client and pings the primary
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique username index and the listing index
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(ContestantsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("idx_contestants_username"),
	})
	if err != nil {
		return fmt.Errorf("failed to create contestants index: %w", err)
	}

	_, err = db.Collection(MemesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "uploadedAt", Value: -1}},
		Options: options.Index().SetName("idx_memes_uploaded_at"),
	})
	if err != nil {
		return fmt.Errorf("failed to create memes index: %w", err)
	}
	return nil
}

type MemeRepository struct {
	collection *mongo.Collection
}

func NewMemeRepository(db *mongo.Database) *MemeRepository {
	return &MemeRepository{collection: db.Collection(MemesCollection)}
}

func (r *MemeRepository) CreateMeme(ctx context.Context, meme *domain.Meme) error {
	_, err := r.collection.InsertOne(ctx, meme)
	return err
}

func (r *MemeRepository) ListMemes(ctx context.Context) ([]*domain.Meme, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	memes := make([]*domain.Meme, 0)
	if err := cursor.All(ctx, &memes); err != nil {
		return nil, err
	}
	return memes, nil
}

type ContestantRepository struct {
	collection *mongo.Collection
}

func NewContestantRepository(db *mongo.Database) *ContestantRepository {
	return &ContestantRepository{collection: db.Collection(ContestantsCollection)}
}

func (r *ContestantRepository) CreateContestant(ctx context.Context, contestant *domain.Contestant) error {
	_, err := r.collection.InsertOne(ctx, contestant)
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicateUsername
	}
	return err
}

func (r *ContestantRepository) FindContestantByUsername(ctx context.Context, username string) (*domain.Contestant, error) {
	var contestant domain.Contestant
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&contestant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrContestantNotFound
		}
		return nil, err
	}
	return &contestant, nil
}

func (r *ContestantRepository) CountContestants(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.D{})
}

var (
	_ repository.MemeRepository       = (*MemeRepository)(nil)
	_ repository.ContestantRepository = (*ContestantRepository)(nil)
)

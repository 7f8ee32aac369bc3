package mongodb

import (
	"context"
	"time"

	"github.com/ByteToHex/vrf-lottery-backend/internal/models"
	"github.com/ByteToHex/vrf-lottery-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MintRepository implements the repositories.MintRepository interface
type MintRepository struct {
	collection *mongo.Collection
}

// NewMintRepository creates a new MintRepository
func NewMintRepository(db *mongo.Database) repositories.MintRepository {
	return &MintRepository{
		collection: db.Collection("mints"),
	}
}

// Create inserts a new mint record
func (r *MintRepository) Create(ctx context.Context, record *models.MintRecord) error {
	record.CreatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return err
	}
	record.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindAll returns all mint records, newest first
func (r *MintRepository) FindAll(ctx context.Context) ([]*models.MintRecord, error) {
	opts := options.Find().SetSort(bson.M{"mintedAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*models.MintRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []*models.MintRecord{}
	}
	return records, nil
}

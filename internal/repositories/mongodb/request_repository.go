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

// RequestRepository implements the repositories.RequestRepository interface
type RequestRepository struct {
	collection *mongo.Collection
}

// NewRequestRepository creates a new RequestRepository
func NewRequestRepository(db *mongo.Database) repositories.RequestRepository {
	return &RequestRepository{
		collection: db.Collection("randomness_requests"),
	}
}

// Create inserts a new request record
func (r *RequestRepository) Create(ctx context.Context, request *models.RandomnessRequest) error {
	request.CreatedAt = time.Now()
	request.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, request)
	if err != nil {
		return err
	}
	request.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// MarkFulfilled finalizes a request record with its random value
func (r *RequestRepository) MarkFulfilled(ctx context.Context, requestID uint64, randomValue string, fulfilledAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"fulfilled":   true,
		"randomValue": randomValue,
		"fulfilledAt": fulfilledAt,
		"updatedAt":   time.Now(),
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"requestId": requestID}, update)
	return err
}

// FindByRequestID finds a request record by its oracle request id
func (r *RequestRepository) FindByRequestID(ctx context.Context, requestID uint64) (*models.RandomnessRequest, error) {
	var request models.RandomnessRequest
	err := r.collection.FindOne(ctx, bson.M{"requestId": requestID}).Decode(&request)
	if err != nil {
		return nil, err // Returns mongo.ErrNoDocuments if not found
	}
	return &request, nil
}

// FindAll returns all request records, newest first
func (r *RequestRepository) FindAll(ctx context.Context) ([]*models.RandomnessRequest, error) {
	opts := options.Find().SetSort(bson.M{"requestId": -1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []*models.RandomnessRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []*models.RandomnessRequest{}
	}
	return requests, nil
}

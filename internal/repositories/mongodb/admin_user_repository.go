package mongodb

import (
	"context"
	"time"

	"github.com/ByteToHex/vrf-lottery-backend/internal/models"
	"github.com/ByteToHex/vrf-lottery-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdminUserRepository implements the repositories.AdminUserRepository interface
type AdminUserRepository struct {
	collection *mongo.Collection
}

// NewAdminUserRepository creates a new AdminUserRepository
func NewAdminUserRepository(db *mongo.Database) repositories.AdminUserRepository {
	return &AdminUserRepository{
		collection: db.Collection("admin_users"),
	}
}

// Create creates a new admin user
func (r *AdminUserRepository) Create(ctx context.Context, adminUser *models.AdminUser) error {
	adminUser.CreatedAt = time.Now()
	adminUser.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, adminUser)
	if err != nil {
		return err
	}
	adminUser.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByEmail finds an admin user by email
func (r *AdminUserRepository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var adminUser models.AdminUser
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&adminUser)
	if err != nil {
		return nil, err
	}
	return &adminUser, nil
}

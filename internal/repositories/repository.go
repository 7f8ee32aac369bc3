package repositories

import (
	"context"
	"time"

	"github.com/ByteToHex/vrf-lottery-backend/internal/models"
)

// RequestRepository defines the persistence interface for the randomness
// request audit log. Records are inserted when a request is issued and
// finalized in place on fulfillment; they are never deleted.
type RequestRepository interface {
	Create(ctx context.Context, request *models.RandomnessRequest) error
	MarkFulfilled(ctx context.Context, requestID uint64, randomValue string, fulfilledAt time.Time) error
	FindByRequestID(ctx context.Context, requestID uint64) (*models.RandomnessRequest, error)
	FindAll(ctx context.Context) ([]*models.RandomnessRequest, error)
}

// MintRepository defines the persistence interface for the mint audit log
type MintRepository interface {
	Create(ctx context.Context, record *models.MintRecord) error
	FindAll(ctx context.Context) ([]*models.MintRecord, error)
}

// AdminUserRepository defines the interface for admin user data operations
type AdminUserRepository interface {
	Create(ctx context.Context, adminUser *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}

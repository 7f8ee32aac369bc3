// Package memory provides in-memory repository implementations used by
// tests and by deployments that run without MongoDB.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ByteToHex/vrf-lottery-backend/internal/models"
	"github.com/ByteToHex/vrf-lottery-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

// RequestRepository is an in-memory repositories.RequestRepository
type RequestRepository struct {
	mu       sync.Mutex
	requests map[uint64]*models.RandomnessRequest
	order    []uint64
}

// NewRequestRepository creates an empty in-memory request repository
func NewRequestRepository() repositories.RequestRepository {
	return &RequestRepository{requests: make(map[uint64]*models.RandomnessRequest)}
}

func (r *RequestRepository) Create(ctx context.Context, request *models.RandomnessRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	request.CreatedAt = time.Now()
	request.UpdatedAt = time.Now()
	cp := *request
	r.requests[request.RequestID] = &cp
	r.order = append(r.order, request.RequestID)
	return nil
}

func (r *RequestRepository) MarkFulfilled(ctx context.Context, requestID uint64, randomValue string, fulfilledAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[requestID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	req.Fulfilled = true
	req.RandomValue = randomValue
	req.FulfilledAt = fulfilledAt
	req.UpdatedAt = time.Now()
	return nil
}

func (r *RequestRepository) FindByRequestID(ctx context.Context, requestID uint64) (*models.RandomnessRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[requestID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *req
	return &cp, nil
}

func (r *RequestRepository) FindAll(ctx context.Context) ([]*models.RandomnessRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.RandomnessRequest, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		cp := *r.requests[r.order[i]]
		out = append(out, &cp)
	}
	return out, nil
}

// MintRepository is an in-memory repositories.MintRepository
type MintRepository struct {
	mu      sync.Mutex
	records []*models.MintRecord
}

// NewMintRepository creates an empty in-memory mint repository
func NewMintRepository() repositories.MintRepository {
	return &MintRepository{}
}

func (r *MintRepository) Create(ctx context.Context, record *models.MintRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record.CreatedAt = time.Now()
	cp := *record
	r.records = append(r.records, &cp)
	return nil
}

func (r *MintRepository) FindAll(ctx context.Context) ([]*models.MintRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.MintRecord, 0, len(r.records))
	for i := len(r.records) - 1; i >= 0; i-- {
		cp := *r.records[i]
		out = append(out, &cp)
	}
	return out, nil
}

// AdminUserRepository is an in-memory repositories.AdminUserRepository
type AdminUserRepository struct {
	mu    sync.Mutex
	users map[string]*models.AdminUser
}

// NewAdminUserRepository creates an empty in-memory admin user repository
func NewAdminUserRepository() repositories.AdminUserRepository {
	return &AdminUserRepository{users: make(map[string]*models.AdminUser)}
}

func (r *AdminUserRepository) Create(ctx context.Context, adminUser *models.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	adminUser.CreatedAt = time.Now()
	adminUser.UpdatedAt = time.Now()
	cp := *adminUser
	r.users[adminUser.Email] = &cp
	return nil
}

func (r *AdminUserRepository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[email]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *user
	return &cp, nil
}

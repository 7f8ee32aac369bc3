package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RandomnessRequest is the audit record for one oracle randomness request.
// Records are created when the request is issued and finalized in place when
// the oracle fulfills it; they are never deleted. Amounts are stored as
// decimal strings because they are 256-bit quantities.
type RandomnessRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RequestID   uint64             `bson:"requestId" json:"requestId"`
	PaidAmount  string             `bson:"paidAmount" json:"paidAmount"`
	Fulfilled   bool               `bson:"fulfilled" json:"fulfilled"`
	RandomValue string             `bson:"randomValue,omitempty" json:"randomValue,omitempty"`
	RequestedAt time.Time          `bson:"requestedAt" json:"requestedAt"`
	FulfilledAt time.Time          `bson:"fulfilledAt,omitempty" json:"fulfilledAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RequestStatus is the read-only view of a tracked request served by the API.
type RequestStatus struct {
	RequestID   uint64 `json:"requestId"`
	PaidAmount  string `json:"paidAmount"`
	Fulfilled   bool   `json:"fulfilled"`
	RandomValue string `json:"randomValue,omitempty"`
}

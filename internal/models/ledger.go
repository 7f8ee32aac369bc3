package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LedgerInfo is the public view of the reward ledger.
type LedgerInfo struct {
	Name             string `json:"name"`
	Symbol           string `json:"symbol"`
	Decimals         uint8  `json:"decimals"`
	Cap              string `json:"cap"`
	TotalSupply      string `json:"totalSupply"`
	AuthorizedMinter string `json:"authorizedMinter,omitempty"`
}

// MintRecord is the append-only audit record for a reward mint.
type MintRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Recipient string             `bson:"recipient" json:"recipient"`
	Amount    string             `bson:"amount" json:"amount"`
	Minter    string             `bson:"minter" json:"minter"`
	MintedAt  time.Time          `bson:"mintedAt" json:"mintedAt"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

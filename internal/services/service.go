package services

import (
	"context"
	"math/big"

	"github.com/ByteToHex/vrf-lottery-backend/internal/models"
	"github.com/ethereum/go-ethereum/common"
)

// LotteryService defines the interface for the lottery controller. Owner-only
// operations (setters, withdraw) are gated by the JWT admin middleware at the
// HTTP layer; the oracle callback is gated here by caller address.
type LotteryService interface {
	// Participate adds caller to the current round. The attached amount must
	// equal the entry fee exactly.
	Participate(ctx context.Context, caller common.Address, amount *big.Int) error

	// RequestDraw asks the oracle for randomness once the draw interval has
	// elapsed. Callable by anyone. Returns the new request id.
	RequestDraw(ctx context.Context) (uint64, error)

	// FulfillRandomness is the oracle callback: it settles the round by
	// selecting a winner and minting the reward. Caller must be the oracle.
	FulfillRandomness(ctx context.Context, caller common.Address, requestID uint64, randomValues []*big.Int) (*models.DrawResult, error)

	// Deposit credits the controller's spendable balance
	Deposit(ctx context.Context, from common.Address, amount *big.Int) error

	// Withdraw debits the controller's spendable balance (owner operation)
	Withdraw(ctx context.Context, amount *big.Int) error

	// Owner-only configuration
	SetEntryFee(ctx context.Context, fee *big.Int) error
	SetIntervalSeconds(ctx context.Context, seconds uint64) error
	SetRewardToken(ctx context.Context, token common.Address) error

	// Read accessors
	RoundInfo(ctx context.Context) (*models.RoundInfo, error)
	Participants(ctx context.Context) ([]common.Address, error)
	ParticipantByIndex(ctx context.Context, index int) (common.Address, error)
	RequestStatus(ctx context.Context, requestID uint64) (*models.RequestStatus, error)
	ListRequests(ctx context.Context) ([]*models.RandomnessRequest, error)
}

// LedgerService defines the interface for the reward token ledger. Mint is
// the only operation that increases total supply and is restricted to the
// single authorized minter or the ledger owner.
type LedgerService interface {
	Mint(ctx context.Context, caller, recipient common.Address, amount *big.Int) error
	Transfer(ctx context.Context, from, to common.Address, amount *big.Int) error
	Approve(ctx context.Context, owner, spender common.Address, amount *big.Int) error
	TransferFrom(ctx context.Context, spender, from, to common.Address, amount *big.Int) error
	Burn(ctx context.Context, from common.Address, amount *big.Int) error
	BurnFrom(ctx context.Context, spender, from common.Address, amount *big.Int) error

	// SetAuthorizedMinter overwrites the authorized minter (owner operation,
	// gated by the admin middleware); last writer wins.
	SetAuthorizedMinter(ctx context.Context, minter common.Address) error

	BalanceOf(ctx context.Context, addr common.Address) *big.Int
	Allowance(ctx context.Context, owner, spender common.Address) *big.Int
	Info(ctx context.Context) *models.LedgerInfo
}

// AuthService defines the interface for admin authentication
type AuthService interface {
	// Login verifies credentials and returns a signed JWT and its lifetime
	Login(ctx context.Context, email, password string) (string, int, error)
}

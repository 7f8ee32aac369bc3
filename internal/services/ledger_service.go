package services

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ByteToHex/vrf-lottery-backend/internal/models"
	"github.com/ByteToHex/vrf-lottery-backend/internal/repositories"
	"github.com/ByteToHex/vrf-lottery-backend/internal/utils"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure LedgerServiceImpl implements LedgerService
var _ LedgerService = (*LedgerServiceImpl)(nil)

// Ledger errors
var (
	ErrUnauthorizedMinter    = errors.New("caller is not authorized to mint")
	ErrCapExceeded           = errors.New("mint would exceed the supply cap")
	ErrMintInProgress        = errors.New("mint already in progress")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
)

// CapExceededError reports the exact supply arithmetic that failed
type CapExceededError struct {
	Supply *big.Int
	Amount *big.Int
	Cap    *big.Int
}

func (e *CapExceededError) Error() string {
	return fmt.Sprintf("mint would exceed the supply cap: supply %s + amount %s > cap %s", e.Supply, e.Amount, e.Cap)
}

func (e *CapExceededError) Is(target error) bool { return target == ErrCapExceeded }

// LedgerServiceImpl is the in-memory reward token ledger. Total supply can
// only grow through Mint, never beyond cap, and only the single authorized
// minter (or the ledger owner) may call it.
type LedgerServiceImpl struct {
	mu      sync.Mutex
	minting atomic.Bool

	name     string
	symbol   string
	decimals uint8
	cap      *big.Int
	owner    common.Address

	authorizedMinter common.Address
	totalSupply      *big.Int
	balances         map[common.Address]*big.Int
	allowances       map[common.Address]map[common.Address]*big.Int

	mintRepo repositories.MintRepository
}

// NewLedgerService creates a new LedgerServiceImpl with an empty ledger
func NewLedgerService(name, symbol string, decimals uint8, supplyCap *big.Int, owner common.Address, mintRepo repositories.MintRepository) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		name:        name,
		symbol:      symbol,
		decimals:    decimals,
		cap:         new(big.Int).Set(supplyCap),
		owner:       owner,
		totalSupply: new(big.Int),
		balances:    make(map[common.Address]*big.Int),
		allowances:  make(map[common.Address]map[common.Address]*big.Int),
		mintRepo:    mintRepo,
	}
}

// Mint credits amount to recipient and grows total supply. The minting flag
// rejects a re-entrant call while an external post-mint hook is running; a
// hostile hook must observe its nested call fail rather than double-credit.
func (s *LedgerServiceImpl) Mint(ctx context.Context, caller, recipient common.Address, amount *big.Int) error {
	if !s.minting.CompareAndSwap(false, true) {
		return ErrMintInProgress
	}
	defer s.minting.Store(false)

	s.mu.Lock()
	authorized := caller == s.owner || (s.authorizedMinter != (common.Address{}) && caller == s.authorizedMinter)
	if !authorized {
		s.mu.Unlock()
		return ErrUnauthorizedMinter
	}

	newSupply := new(big.Int).Add(s.totalSupply, amount)
	if newSupply.Cmp(s.cap) > 0 {
		supply := new(big.Int).Set(s.totalSupply)
		s.mu.Unlock()
		return &CapExceededError{Supply: supply, Amount: new(big.Int).Set(amount), Cap: new(big.Int).Set(s.cap)}
	}

	s.credit(recipient, amount)
	s.totalSupply = newSupply
	minted := newSupply.String()
	s.mu.Unlock()

	if s.mintRepo != nil {
		record := &models.MintRecord{
			Recipient: recipient.Hex(),
			Amount:    amount.String(),
			Minter:    caller.Hex(),
			MintedAt:  time.Now(),
		}
		if err := s.mintRepo.Create(ctx, record); err != nil {
			slog.Warn("Failed to persist mint record", "error", err, "recipient", utils.MaskAddress(recipient))
		}
	}

	slog.Info("Reward minted", "recipient", utils.MaskAddress(recipient), "amount", amount.String(), "totalSupply", minted)
	return nil
}

// Transfer moves amount from one balance to another
func (s *LedgerServiceImpl) Transfer(ctx context.Context, from, to common.Address, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.move(from, to, amount)
}

// Approve sets spender's allowance over owner's balance
func (s *LedgerServiceImpl) Approve(ctx context.Context, owner, spender common.Address, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.allowances[owner] == nil {
		s.allowances[owner] = make(map[common.Address]*big.Int)
	}
	s.allowances[owner][spender] = new(big.Int).Set(amount)
	return nil
}

// TransferFrom moves amount from one balance to another on behalf of spender
func (s *LedgerServiceImpl) TransferFrom(ctx context.Context, spender, from, to common.Address, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.spendAllowance(from, spender, amount); err != nil {
		return err
	}
	return s.move(from, to, amount)
}

// Burn destroys amount from the caller's balance and shrinks total supply
func (s *LedgerServiceImpl) Burn(ctx context.Context, from common.Address, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.burn(from, amount)
}

// BurnFrom destroys amount from another balance on behalf of spender
func (s *LedgerServiceImpl) BurnFrom(ctx context.Context, spender, from common.Address, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.spendAllowance(from, spender, amount); err != nil {
		return err
	}
	return s.burn(from, amount)
}

// SetAuthorizedMinter overwrites the single authorized minter; last writer wins
func (s *LedgerServiceImpl) SetAuthorizedMinter(ctx context.Context, minter common.Address) error {
	s.mu.Lock()
	s.authorizedMinter = minter
	s.mu.Unlock()
	slog.Info("Authorized minter updated", "minter", utils.MaskAddress(minter))
	return nil
}

// BalanceOf returns the balance of an address (zero if never credited)
func (s *LedgerServiceImpl) BalanceOf(ctx context.Context, addr common.Address) *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bal, ok := s.balances[addr]; ok {
		return new(big.Int).Set(bal)
	}
	return new(big.Int)
}

// Allowance returns spender's remaining allowance over owner's balance
func (s *LedgerServiceImpl) Allowance(ctx context.Context, owner, spender common.Address) *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if byOwner, ok := s.allowances[owner]; ok {
		if allowance, ok := byOwner[spender]; ok {
			return new(big.Int).Set(allowance)
		}
	}
	return new(big.Int)
}

// Info returns the ledger metadata and supply
func (s *LedgerServiceImpl) Info(ctx context.Context) *models.LedgerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	info := &models.LedgerInfo{
		Name:        s.name,
		Symbol:      s.symbol,
		Decimals:    s.decimals,
		Cap:         s.cap.String(),
		TotalSupply: s.totalSupply.String(),
	}
	if s.authorizedMinter != (common.Address{}) {
		info.AuthorizedMinter = s.authorizedMinter.Hex()
	}
	return info
}

// credit adds amount to an address, creating the balance lazily.
// Caller must hold s.mu.
func (s *LedgerServiceImpl) credit(addr common.Address, amount *big.Int) {
	bal, ok := s.balances[addr]
	if !ok {
		bal = new(big.Int)
		s.balances[addr] = bal
	}
	bal.Add(bal, amount)
}

// move transfers between balances. Caller must hold s.mu.
func (s *LedgerServiceImpl) move(from, to common.Address, amount *big.Int) error {
	bal, ok := s.balances[from]
	if !ok || bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	bal.Sub(bal, amount)
	s.credit(to, amount)
	return nil
}

// burn removes from a balance and total supply. Caller must hold s.mu.
func (s *LedgerServiceImpl) burn(from common.Address, amount *big.Int) error {
	bal, ok := s.balances[from]
	if !ok || bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	bal.Sub(bal, amount)
	s.totalSupply.Sub(s.totalSupply, amount)
	return nil
}

// spendAllowance consumes spender's allowance over from. Caller must hold s.mu.
func (s *LedgerServiceImpl) spendAllowance(from, spender common.Address, amount *big.Int) error {
	byOwner := s.allowances[from]
	if byOwner == nil {
		return ErrInsufficientAllowance
	}
	allowance, ok := byOwner[spender]
	if !ok || allowance.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}
	allowance.Sub(allowance, amount)
	return nil
}

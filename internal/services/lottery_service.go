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
	"github.com/ByteToHex/vrf-lottery-backend/pkg/oracle"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure LotteryServiceImpl implements LotteryService
var _ LotteryService = (*LotteryServiceImpl)(nil)

// Lottery errors
var (
	ErrNotAcceptingParticipants      = errors.New("lottery is not accepting participants")
	ErrAlreadyParticipating          = errors.New("address is already participating in this round")
	ErrFeeNotConfigured              = errors.New("entry fee is not configured")
	ErrWrongAmount                   = errors.New("sent amount must equal the entry fee exactly")
	ErrTooSoonToDraw                 = errors.New("draw interval has not elapsed")
	ErrInsufficientBalanceForRequest = errors.New("controller balance below quoted request price")
	ErrOracleUnavailable             = errors.New("randomness oracle unavailable")
	ErrRequestNotFound               = errors.New("randomness request not found")
	ErrAlreadyFulfilled              = errors.New("randomness request already fulfilled")
	ErrTokenNotConfigured            = errors.New("reward token not configured")
	ErrReentrantCall                 = errors.New("reentrant call rejected")
	ErrWithdrawInProgress            = errors.New("withdrawal already in progress")
	ErrUnauthorizedOracleCaller      = errors.New("only the oracle may fulfill randomness")
	ErrIndexOutOfRange               = errors.New("participant index out of range")
)

// UnauthorizedOracleCallerError reports who called the fulfillment entry
// point and who was expected. This check is the mint-path authorization
// gate; its failure must never mutate state.
type UnauthorizedOracleCallerError struct {
	Have common.Address
	Want common.Address
}

func (e *UnauthorizedOracleCallerError) Error() string {
	return fmt.Sprintf("only the oracle may fulfill randomness: have %s, want %s", e.Have.Hex(), e.Want.Hex())
}

func (e *UnauthorizedOracleCallerError) Is(target error) bool {
	return target == ErrUnauthorizedOracleCaller
}

// trackedRequest is the authoritative in-memory record of one oracle
// request. Entries are appended on RequestDraw and finalized on
// fulfillment, never deleted.
type trackedRequest struct {
	paid        *big.Int
	fulfilled   bool
	value       *big.Int
	requestedAt time.Time
}

// LotteryParams configures a new lottery controller
type LotteryParams struct {
	SelfAddress          common.Address // identity presented to the ledger mint gate
	OracleAddress        common.Address // only caller allowed to fulfill
	RewardToken          common.Address // zero until SetRewardToken
	EntryFee             *big.Int
	IntervalSeconds      uint64
	CallbackGasLimit     uint32
	RequestConfirmations uint16
	NumWords             uint32
}

// LotteryServiceImpl owns the round state and the draw lifecycle. All state
// mutations are either under s.mu or guarded by a busy flag; external calls
// (oracle request, ledger mint) are made with s.mu released so a hostile
// callee that re-enters is rejected by the guards instead of deadlocking.
type LotteryServiceImpl struct {
	mu          sync.Mutex
	settling    atomic.Bool // fulfillment critical section
	withdrawing atomic.Bool

	selfAddr    common.Address
	oracleAddr  common.Address
	rewardToken common.Address

	provider    oracle.RandomnessProvider
	ledger      LedgerService
	requestRepo repositories.RequestRepository
	now         func() time.Time

	entryFee          *big.Int
	intervalSeconds   uint64
	lastDrawTimestamp uint64
	accepting         bool
	participants      []common.Address
	balance           *big.Int

	callbackGasLimit     uint32
	requestConfirmations uint16
	numWords             uint32

	requests      map[uint64]*trackedRequest
	localID       uint64
	lastRequestID uint64
}

// NewLotteryService creates a new LotteryServiceImpl accepting participants
func NewLotteryService(params LotteryParams, provider oracle.RandomnessProvider, ledger LedgerService, requestRepo repositories.RequestRepository) *LotteryServiceImpl {
	fee := params.EntryFee
	if fee == nil {
		fee = new(big.Int)
	}
	return &LotteryServiceImpl{
		selfAddr:             params.SelfAddress,
		oracleAddr:           params.OracleAddress,
		rewardToken:          params.RewardToken,
		provider:             provider,
		ledger:               ledger,
		requestRepo:          requestRepo,
		now:                  time.Now,
		entryFee:             new(big.Int).Set(fee),
		intervalSeconds:      params.IntervalSeconds,
		accepting:            true,
		balance:              new(big.Int),
		callbackGasLimit:     params.CallbackGasLimit,
		requestConfirmations: params.RequestConfirmations,
		numWords:             params.NumWords,
		requests:             make(map[uint64]*trackedRequest),
	}
}

// Participate adds caller to the round after validating the exact entry fee.
// The fee is credited to the controller's spendable balance. No external
// calls are made here.
func (s *LotteryServiceImpl) Participate(ctx context.Context, caller common.Address, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.accepting {
		return ErrNotAcceptingParticipants
	}
	for _, p := range s.participants {
		if p == caller {
			return ErrAlreadyParticipating
		}
	}
	if s.entryFee.Sign() == 0 {
		return ErrFeeNotConfigured
	}
	if amount == nil || amount.Cmp(s.entryFee) != 0 {
		return ErrWrongAmount
	}

	s.participants = append(s.participants, caller)
	s.balance.Add(s.balance, amount)

	slog.Info("Participant joined", "address", utils.MaskAddress(caller), "participants", len(s.participants))
	return nil
}

// RequestDraw issues a randomness request once the interval has elapsed.
// lastDrawTimestamp is advanced before the oracle call so a re-entrant draw
// during that call is interval-gated; on failure every change is restored.
// A draw with zero participants is legal and later yields no winner.
func (s *LotteryServiceImpl) RequestDraw(ctx context.Context) (uint64, error) {
	if s.settling.Load() {
		return 0, ErrReentrantCall
	}

	s.mu.Lock()
	now := uint64(s.now().Unix())
	if s.lastDrawTimestamp != 0 && now < s.lastDrawTimestamp+s.intervalSeconds {
		s.mu.Unlock()
		return 0, ErrTooSoonToDraw
	}
	prevTimestamp := s.lastDrawTimestamp
	s.lastDrawTimestamp = now
	gasLimit, confirmations, numWords := s.callbackGasLimit, s.requestConfirmations, s.numWords
	s.mu.Unlock()

	revertTimestamp := func() {
		s.mu.Lock()
		s.lastDrawTimestamp = prevTimestamp
		s.mu.Unlock()
	}

	price, err := s.provider.QuotePrice(ctx, gasLimit, numWords)
	if err != nil {
		revertTimestamp()
		return 0, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}

	s.mu.Lock()
	if s.balance.Cmp(price) < 0 {
		s.lastDrawTimestamp = prevTimestamp
		s.mu.Unlock()
		return 0, ErrInsufficientBalanceForRequest
	}
	s.balance.Sub(s.balance, price)
	s.mu.Unlock()

	id, err := s.provider.RequestRandomness(ctx, gasLimit, confirmations, numWords, oracle.ExtraArgsNativePayment(), price)
	if err != nil {
		s.mu.Lock()
		s.balance.Add(s.balance, price)
		s.lastDrawTimestamp = prevTimestamp
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}

	s.mu.Lock()
	if id == 0 {
		s.localID++
		id = s.localID
	} else if id > s.localID {
		s.localID = id
	}
	requestedAt := s.now()
	s.requests[id] = &trackedRequest{paid: price, requestedAt: requestedAt}
	s.lastRequestID = id
	s.mu.Unlock()

	if s.requestRepo != nil {
		record := &models.RandomnessRequest{
			RequestID:   id,
			PaidAmount:  price.String(),
			RequestedAt: requestedAt,
		}
		if err := s.requestRepo.Create(ctx, record); err != nil {
			slog.Warn("Failed to persist randomness request", "error", err, "requestId", id)
		}
	}

	slog.Info("Randomness requested", "requestId", id, "price", price.String())
	return id, nil
}

// FulfillRandomness settles the round. Only the configured oracle address
// may call it, each request settles at most once, and the whole function is
// a critical section: the busy flag rejects any call that re-enters while
// the external mint is in flight. A failed mint rolls back the fulfillment
// entirely, so either every effect lands or none do.
func (s *LotteryServiceImpl) FulfillRandomness(ctx context.Context, caller common.Address, requestID uint64, randomValues []*big.Int) (*models.DrawResult, error) {
	if caller != s.oracleAddr {
		return nil, &UnauthorizedOracleCallerError{Have: caller, Want: s.oracleAddr}
	}

	if !s.settling.CompareAndSwap(false, true) {
		return nil, ErrReentrantCall
	}
	defer s.settling.Store(false)

	s.mu.Lock()
	req, ok := s.requests[requestID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrRequestNotFound
	}
	if req.fulfilled {
		s.mu.Unlock()
		return nil, ErrAlreadyFulfilled
	}

	var value *big.Int
	if len(randomValues) > 0 {
		value = new(big.Int).Set(randomValues[0])
	}

	// Effects before the external mint call: mark fulfilled, close the
	// entry window, pick the winner, clear the round.
	req.fulfilled = true
	req.value = value
	s.accepting = false

	prevParticipants := s.participants
	participantCount := len(s.participants)

	var winner common.Address
	var reward *big.Int
	haveWinner := false
	if value != nil {
		winner, haveWinner = SelectWinner(s.participants, value)
	}
	if haveWinner {
		reward = new(big.Int).Mul(s.entryFee, big.NewInt(int64(participantCount)))
		s.participants = nil
	}
	rewardToken := s.rewardToken
	s.mu.Unlock()

	var mintErr error
	if haveWinner {
		if rewardToken == (common.Address{}) || s.ledger == nil {
			mintErr = ErrTokenNotConfigured
		} else {
			mintErr = s.ledger.Mint(ctx, s.selfAddr, winner, reward)
		}
	}

	s.mu.Lock()
	if mintErr != nil {
		// Roll back the entire fulfillment: the settlement is one atomic
		// transaction and a failed mint must leave no trace of it.
		req.fulfilled = false
		req.value = nil
		s.participants = prevParticipants
		s.accepting = true
		s.mu.Unlock()
		return nil, fmt.Errorf("mint reward: %w", mintErr)
	}
	s.accepting = true
	fulfilledAt := s.now()
	s.mu.Unlock()

	if s.requestRepo != nil {
		valueStr := ""
		if value != nil {
			valueStr = value.String()
		}
		if err := s.requestRepo.MarkFulfilled(ctx, requestID, valueStr, fulfilledAt); err != nil {
			slog.Warn("Failed to finalize randomness request record", "error", err, "requestId", requestID)
		}
	}

	result := &models.DrawResult{
		RequestID:        requestID,
		ParticipantCount: participantCount,
		FulfilledAt:      fulfilledAt,
	}
	if value != nil {
		result.RandomValue = value.String()
	}
	if haveWinner {
		result.Winner = winner.Hex()
		result.Reward = reward.String()
		slog.Info("Draw fulfilled", "requestId", requestID, "winner", utils.MaskAddress(winner), "reward", reward.String(), "participants", participantCount)
	} else {
		slog.Info("Draw fulfilled without winner", "requestId", requestID, "participants", participantCount)
	}
	return result, nil
}

// Deposit credits the controller's spendable balance
func (s *LotteryServiceImpl) Deposit(ctx context.Context, from common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrWrongAmount
	}
	s.mu.Lock()
	s.balance.Add(s.balance, amount)
	balance := s.balance.String()
	s.mu.Unlock()
	slog.Info("Deposit received", "from", utils.MaskAddress(from), "amount", amount.String(), "balance", balance)
	return nil
}

// Withdraw debits the controller's spendable balance. The withdrawing flag
// rejects overlapping withdrawals.
func (s *LotteryServiceImpl) Withdraw(ctx context.Context, amount *big.Int) error {
	if !s.withdrawing.CompareAndSwap(false, true) {
		return ErrWithdrawInProgress
	}
	defer s.withdrawing.Store(false)

	if amount == nil || amount.Sign() <= 0 {
		return ErrWrongAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balance.Cmp(amount) < 0 {
		return ErrInsufficientBalanceForRequest
	}
	s.balance.Sub(s.balance, amount)
	slog.Info("Withdrawal executed", "amount", amount.String(), "balance", s.balance.String())
	return nil
}

// SetEntryFee sets the entry fee for subsequent participations
func (s *LotteryServiceImpl) SetEntryFee(ctx context.Context, fee *big.Int) error {
	if fee == nil || fee.Sign() < 0 {
		return ErrWrongAmount
	}
	s.mu.Lock()
	s.entryFee = new(big.Int).Set(fee)
	s.mu.Unlock()
	slog.Info("Entry fee updated", "fee", fee.String())
	return nil
}

// SetIntervalSeconds sets the minimum spacing between draw requests
func (s *LotteryServiceImpl) SetIntervalSeconds(ctx context.Context, seconds uint64) error {
	s.mu.Lock()
	s.intervalSeconds = seconds
	s.mu.Unlock()
	slog.Info("Draw interval updated", "seconds", seconds)
	return nil
}

// SetRewardToken selects the reward ledger address used for minting
func (s *LotteryServiceImpl) SetRewardToken(ctx context.Context, token common.Address) error {
	s.mu.Lock()
	s.rewardToken = token
	s.mu.Unlock()
	slog.Info("Reward token updated", "token", utils.MaskAddress(token))
	return nil
}

// RoundInfo returns a snapshot of the current round state
func (s *LotteryServiceImpl) RoundInfo(ctx context.Context) (*models.RoundInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info := &models.RoundInfo{
		EntryFee:              s.entryFee.String(),
		IntervalSeconds:       s.intervalSeconds,
		LastDrawTimestamp:     s.lastDrawTimestamp,
		AcceptingParticipants: s.accepting,
		ParticipantCount:      len(s.participants),
		Balance:               s.balance.String(),
		LastRequestID:         s.lastRequestID,
	}
	if s.rewardToken != (common.Address{}) {
		info.RewardToken = s.rewardToken.Hex()
	}
	return info, nil
}

// Participants returns the current participant list in insertion order
func (s *LotteryServiceImpl) Participants(ctx context.Context) ([]common.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]common.Address, len(s.participants))
	copy(out, s.participants)
	return out, nil
}

// ParticipantByIndex returns the participant at the given position
func (s *LotteryServiceImpl) ParticipantByIndex(ctx context.Context, index int) (common.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.participants) {
		return common.Address{}, ErrIndexOutOfRange
	}
	return s.participants[index], nil
}

// RequestStatus returns the tracked state of one randomness request
func (s *LotteryServiceImpl) RequestStatus(ctx context.Context, requestID uint64) (*models.RequestStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok {
		return nil, ErrRequestNotFound
	}
	status := &models.RequestStatus{
		RequestID:  requestID,
		PaidAmount: req.paid.String(),
		Fulfilled:  req.fulfilled,
	}
	if req.value != nil {
		status.RandomValue = req.value.String()
	}
	return status, nil
}

// ListRequests returns the persisted request audit log, newest first
func (s *LotteryServiceImpl) ListRequests(ctx context.Context) ([]*models.RandomnessRequest, error) {
	if s.requestRepo == nil {
		return []*models.RandomnessRequest{}, nil
	}
	requests, err := s.requestRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list randomness requests: %w", err)
	}
	return requests, nil
}

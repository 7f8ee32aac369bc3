package services

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ledgerOwner = common.HexToAddress("0x0000000000000000000000000000000000000001")
	minterAddr  = common.HexToAddress("0x0000000000000000000000000000000000000002")
	alice       = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob         = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

func newTestLedger(cap int64) *LedgerServiceImpl {
	return NewLedgerService("Lottery Reward Token", "LRT", 18, big.NewInt(cap), ledgerOwner, nil)
}

func TestLedgerMintAuthorization(t *testing.T) {
	ctx := context.Background()

	t.Run("owner may mint", func(t *testing.T) {
		s := newTestLedger(1000)
		require.NoError(t, s.Mint(ctx, ledgerOwner, alice, big.NewInt(100)))
		assert.Equal(t, "100", s.BalanceOf(ctx, alice).String())
	})

	t.Run("authorized minter may mint", func(t *testing.T) {
		s := newTestLedger(1000)
		require.NoError(t, s.SetAuthorizedMinter(ctx, minterAddr))
		require.NoError(t, s.Mint(ctx, minterAddr, alice, big.NewInt(100)))
	})

	t.Run("other callers are rejected", func(t *testing.T) {
		s := newTestLedger(1000)
		require.NoError(t, s.SetAuthorizedMinter(ctx, minterAddr))
		err := s.Mint(ctx, alice, alice, big.NewInt(100))
		assert.ErrorIs(t, err, ErrUnauthorizedMinter)
		assert.Equal(t, "0", s.BalanceOf(ctx, alice).String())
	})

	t.Run("zero address caller never passes an unset minter", func(t *testing.T) {
		// No minter configured: the unset slot is the zero address and must
		// not make a zero-address caller authorized.
		s := newTestLedger(1000)
		err := s.Mint(ctx, common.Address{}, alice, big.NewInt(100))
		assert.ErrorIs(t, err, ErrUnauthorizedMinter)
	})

	t.Run("minter replacement is last writer wins", func(t *testing.T) {
		s := newTestLedger(1000)
		require.NoError(t, s.SetAuthorizedMinter(ctx, minterAddr))
		require.NoError(t, s.SetAuthorizedMinter(ctx, alice))
		assert.ErrorIs(t, s.Mint(ctx, minterAddr, bob, big.NewInt(1)), ErrUnauthorizedMinter)
		assert.NoError(t, s.Mint(ctx, alice, bob, big.NewInt(1)))
	})
}

func TestLedgerMintCap(t *testing.T) {
	ctx := context.Background()

	t.Run("mint exactly to cap succeeds", func(t *testing.T) {
		s := newTestLedger(500)
		require.NoError(t, s.Mint(ctx, ledgerOwner, alice, big.NewInt(500)))
		assert.Equal(t, "500", s.Info(ctx).TotalSupply)
	})

	t.Run("mint beyond cap fails with no partial effect", func(t *testing.T) {
		s := newTestLedger(500)
		require.NoError(t, s.Mint(ctx, ledgerOwner, alice, big.NewInt(400)))

		err := s.Mint(ctx, ledgerOwner, bob, big.NewInt(101))
		assert.ErrorIs(t, err, ErrCapExceeded)

		var capErr *CapExceededError
		require.True(t, errors.As(err, &capErr))
		assert.Equal(t, "400", capErr.Supply.String())
		assert.Equal(t, "101", capErr.Amount.String())
		assert.Equal(t, "500", capErr.Cap.String())

		assert.Equal(t, "0", s.BalanceOf(ctx, bob).String())
		assert.Equal(t, "400", s.Info(ctx).TotalSupply)
	})

	t.Run("burn frees room under the cap", func(t *testing.T) {
		s := newTestLedger(500)
		require.NoError(t, s.Mint(ctx, ledgerOwner, alice, big.NewInt(500)))
		require.NoError(t, s.Burn(ctx, alice, big.NewInt(200)))
		assert.NoError(t, s.Mint(ctx, ledgerOwner, bob, big.NewInt(200)))
	})
}

func TestLedgerMintBusyFlag(t *testing.T) {
	ctx := context.Background()
	s := newTestLedger(1000)

	s.minting.Store(true)
	assert.ErrorIs(t, s.Mint(ctx, ledgerOwner, alice, big.NewInt(1)), ErrMintInProgress)
	s.minting.Store(false)

	assert.NoError(t, s.Mint(ctx, ledgerOwner, alice, big.NewInt(1)))
}

func TestLedgerTransfers(t *testing.T) {
	ctx := context.Background()
	s := newTestLedger(1000)
	require.NoError(t, s.Mint(ctx, ledgerOwner, alice, big.NewInt(300)))

	t.Run("transfer moves balance", func(t *testing.T) {
		require.NoError(t, s.Transfer(ctx, alice, bob, big.NewInt(100)))
		assert.Equal(t, "200", s.BalanceOf(ctx, alice).String())
		assert.Equal(t, "100", s.BalanceOf(ctx, bob).String())
	})

	t.Run("transfer beyond balance fails", func(t *testing.T) {
		err := s.Transfer(ctx, bob, alice, big.NewInt(101))
		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})

	t.Run("transfer does not change supply", func(t *testing.T) {
		assert.Equal(t, "300", s.Info(ctx).TotalSupply)
	})
}

func TestLedgerAllowances(t *testing.T) {
	ctx := context.Background()
	spender := common.HexToAddress("0x00000000000000000000000000000000000000c3")

	s := newTestLedger(1000)
	require.NoError(t, s.Mint(ctx, ledgerOwner, alice, big.NewInt(300)))

	t.Run("transferFrom without approval fails", func(t *testing.T) {
		err := s.TransferFrom(ctx, spender, alice, bob, big.NewInt(50))
		assert.ErrorIs(t, err, ErrInsufficientAllowance)
	})

	t.Run("transferFrom consumes allowance", func(t *testing.T) {
		require.NoError(t, s.Approve(ctx, alice, spender, big.NewInt(120)))
		require.NoError(t, s.TransferFrom(ctx, spender, alice, bob, big.NewInt(50)))
		assert.Equal(t, "70", s.Allowance(ctx, alice, spender).String())
		assert.Equal(t, "50", s.BalanceOf(ctx, bob).String())

		err := s.TransferFrom(ctx, spender, alice, bob, big.NewInt(71))
		assert.ErrorIs(t, err, ErrInsufficientAllowance)
	})

	t.Run("burnFrom consumes allowance and supply", func(t *testing.T) {
		require.NoError(t, s.BurnFrom(ctx, spender, alice, big.NewInt(70)))
		assert.Equal(t, "0", s.Allowance(ctx, alice, spender).String())
		assert.Equal(t, "230", s.Info(ctx).TotalSupply)
	})
}

func TestLedgerInfo(t *testing.T) {
	ctx := context.Background()
	s := newTestLedger(1000)

	info := s.Info(ctx)
	assert.Equal(t, "Lottery Reward Token", info.Name)
	assert.Equal(t, "LRT", info.Symbol)
	assert.Equal(t, uint8(18), info.Decimals)
	assert.Equal(t, "1000", info.Cap)
	assert.Equal(t, "0", info.TotalSupply)
	assert.Empty(t, info.AuthorizedMinter)

	require.NoError(t, s.SetAuthorizedMinter(ctx, minterAddr))
	assert.Equal(t, minterAddr.Hex(), s.Info(ctx).AuthorizedMinter)
}

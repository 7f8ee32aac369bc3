package oracle

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtraArgsNativePayment(t *testing.T) {
	args := ExtraArgsNativePayment()
	require.Len(t, args, ExtraArgsLen)

	// First 4 bytes of keccak256("VRF ExtraArgsV1")
	assert.Equal(t, []byte{0x92, 0xfd, 0x13, 0x38}, args[0:4])

	// nativePayment flag as a big-endian 1 at bytes 32-35
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x01}, args[32:36])

	for i, b := range args {
		if (i >= 0 && i < 4) || (i >= 32 && i < 36) {
			continue
		}
		assert.Zerof(t, b, "byte %d must be zero", i)
	}

	// Each call returns a fresh slice
	args[0] = 0xff
	assert.Equal(t, byte(0x92), ExtraArgsNativePayment()[0])
}

func TestMock(t *testing.T) {
	ctx := context.Background()

	t.Run("quotes the configured price", func(t *testing.T) {
		m := NewMock(big.NewInt(2500))
		price, err := m.QuotePrice(ctx, 100000, 1)
		require.NoError(t, err)
		assert.Equal(t, "2500", price.String())
	})

	t.Run("assigns monotonic request ids", func(t *testing.T) {
		m := NewMock(nil)
		id1, err := m.RequestRandomness(ctx, 100000, 3, 1, ExtraArgsNativePayment(), m.Price)
		require.NoError(t, err)
		id2, err := m.RequestRandomness(ctx, 100000, 3, 1, ExtraArgsNativePayment(), m.Price)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), id1)
		assert.Equal(t, uint64(2), id2)
	})

	t.Run("records the extraArgs payload", func(t *testing.T) {
		m := NewMock(nil)
		_, err := m.RequestRandomness(ctx, 100000, 3, 1, ExtraArgsNativePayment(), m.Price)
		require.NoError(t, err)
		assert.Equal(t, ExtraArgsNativePayment(), m.LastExtraArgs)
	})

	t.Run("rejects malformed extraArgs", func(t *testing.T) {
		m := NewMock(nil)
		_, err := m.RequestRandomness(ctx, 100000, 3, 1, []byte{0x01}, m.Price)
		assert.Error(t, err)
	})

	t.Run("rejects underpayment", func(t *testing.T) {
		m := NewMock(big.NewInt(1000))
		_, err := m.RequestRandomness(ctx, 100000, 3, 1, ExtraArgsNativePayment(), big.NewInt(999))
		assert.Error(t, err)
		_, err = m.RequestRandomness(ctx, 100000, 3, 1, ExtraArgsNativePayment(), nil)
		assert.Error(t, err)

		id, err := m.RequestRandomness(ctx, 100000, 3, 1, ExtraArgsNativePayment(), big.NewInt(1000))
		require.NoError(t, err)
		assert.Equal(t, uint64(1), id)
		assert.Equal(t, "1000", m.LastPayment.String())
	})

	t.Run("propagates configured errors", func(t *testing.T) {
		m := NewMock(nil)
		m.QuoteErr = errors.New("down")
		_, err := m.QuotePrice(ctx, 100000, 1)
		assert.Error(t, err)

		m.RequestErr = errors.New("down")
		_, err = m.RequestRandomness(ctx, 100000, 3, 1, ExtraArgsNativePayment(), m.Price)
		assert.Error(t, err)
	})

	t.Run("invokes the fulfillment hook after assignment", func(t *testing.T) {
		m := NewMock(nil)
		var got uint64
		m.FulfillFunc = func(requestID uint64) { got = requestID }
		id, err := m.RequestRandomness(ctx, 100000, 3, 1, ExtraArgsNativePayment(), m.Price)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})
}

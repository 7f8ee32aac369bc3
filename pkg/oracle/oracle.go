// Package oracle provides the client for the external randomness oracle.
// The oracle is consumed through two calls: a price quote and a paid
// randomness request. It later calls back into the lottery's fulfillment
// endpoint; that callback is authenticated by caller address, not here.
package oracle

import (
	"context"
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
)

// RandomnessProvider is the capability interface for the oracle.
type RandomnessProvider interface {
	// QuotePrice returns the native price the oracle currently charges for a
	// request with the given callback gas limit and word count.
	QuotePrice(ctx context.Context, callbackGasLimit uint32, numWords uint32) (*big.Int, error)

	// RequestRandomness submits a randomness request paying exactly the
	// quoted price and returns the oracle-assigned request id (0 if the
	// oracle leaves id assignment to the caller).
	RequestRandomness(ctx context.Context, callbackGasLimit uint32, requestConfirmations uint16, numWords uint32, extraArgs []byte, payment *big.Int) (uint64, error)
}

// ExtraArgsLen is the exact length of the extraArgs payload.
const ExtraArgsLen = 64

// extraArgsTag is the first 4 bytes of keccak256("VRF ExtraArgsV1").
var extraArgsTag = crypto.Keccak256([]byte("VRF ExtraArgsV1"))[:4]

// ExtraArgsNativePayment builds the fixed 64-byte extraArgs payload that
// selects native-currency payment: bytes 0-3 carry the ExtraArgsV1 tag,
// bytes 32-35 a big-endian 1 (nativePayment = true), everything else zero.
// The byte layout must match the oracle network's ABI exactly.
func ExtraArgsNativePayment() []byte {
	args := make([]byte, ExtraArgsLen)
	copy(args[0:4], extraArgsTag)
	binary.BigEndian.PutUint32(args[32:36], 1)
	return args
}

package utils

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ParseAddress parses a 0x-prefixed hex address
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, errors.New("invalid address format")
	}
	return common.HexToAddress(s), nil
}

// ParseAmount parses a non-negative decimal amount
func ParseAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.New("invalid amount format")
	}
	if amount.Sign() < 0 {
		return nil, errors.New("amount must not be negative")
	}
	return amount, nil
}

// ParseAmounts parses a list of non-negative decimal amounts
func ParseAmounts(values []string) ([]*big.Int, error) {
	out := make([]*big.Int, len(values))
	for i, v := range values {
		amount, err := ParseAmount(v)
		if err != nil {
			return nil, err
		}
		out[i] = amount
	}
	return out, nil
}

// MaskAddress shortens an address for logging (e.g. 0x1234..abcd)
func MaskAddress(addr common.Address) string {
	hex := addr.Hex()
	return hex[:6] + ".." + hex[len(hex)-4:]
}

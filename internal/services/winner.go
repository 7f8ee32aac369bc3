package services

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SelectWinner deterministically picks one participant given the oracle's
// random value: participants[randomValue mod len(participants)]. Returns
// false when the list is empty; callers must treat that as "no mint". Pure
// function, no state access, so the selection is auditable from its inputs.
func SelectWinner(participants []common.Address, randomValue *big.Int) (common.Address, bool) {
	if len(participants) == 0 {
		return common.Address{}, false
	}
	index := new(big.Int).Mod(randomValue, big.NewInt(int64(len(participants))))
	return participants[index.Int64()], true
}

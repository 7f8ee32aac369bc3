package models

import "time"

// RoundInfo is a snapshot of the current lottery round state.
type RoundInfo struct {
	EntryFee              string `json:"entryFee"`
	IntervalSeconds       uint64 `json:"intervalSeconds"`
	LastDrawTimestamp     uint64 `json:"lastDrawTimestamp"`
	AcceptingParticipants bool   `json:"acceptingParticipants"`
	ParticipantCount      int    `json:"participantCount"`
	Balance               string `json:"balance"`
	RewardToken           string `json:"rewardToken,omitempty"`
	LastRequestID         uint64 `json:"lastRequestId"`
}

// DrawResult is the outcome of one fulfilled randomness request. Winner is
// empty when the round had no participants.
type DrawResult struct {
	RequestID        uint64    `json:"requestId"`
	RandomValue      string    `json:"randomValue"`
	Winner           string    `json:"winner,omitempty"`
	Reward           string    `json:"reward,omitempty"`
	ParticipantCount int       `json:"participantCount"`
	FulfilledAt      time.Time `json:"fulfilledAt"`
}

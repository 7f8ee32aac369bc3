package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ByteToHex/vrf-lottery-backend/internal/services"
	"github.com/ByteToHex/vrf-lottery-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// LotteryHandler handles lottery-related HTTP requests
type LotteryHandler struct {
	lotteryService services.LotteryService
}

// NewLotteryHandler creates a new LotteryHandler
func NewLotteryHandler(lotteryService services.LotteryService) *LotteryHandler {
	return &LotteryHandler{
		lotteryService: lotteryService,
	}
}

// ParticipateRequest is the payload for POST /lottery/participate
type ParticipateRequest struct {
	Address string `json:"address" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
}

// Participate handles POST /lottery/participate
func (h *LotteryHandler) Participate(c *gin.Context) {
	var request ParticipateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	address, err := utils.ParseAddress(request.Address)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address format"})
		return
	}
	amount, err := utils.ParseAmount(request.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount format"})
		return
	}

	if err := h.lotteryService.Participate(c.Request.Context(), address, amount); err != nil {
		switch {
		case errors.Is(err, services.ErrNotAcceptingParticipants):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAlreadyParticipating):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrFeeNotConfigured), errors.Is(err, services.ErrWrongAmount):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to participate: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Participation accepted"})
}

// RequestDraw handles POST /lottery/draw
func (h *LotteryHandler) RequestDraw(c *gin.Context) {
	requestID, err := h.lotteryService.RequestDraw(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTooSoonToDraw):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrReentrantCall):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInsufficientBalanceForRequest):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrOracleUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to request draw: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"requestId": requestID})
}

// OracleCallbackRequest is the payload for POST /oracle/callback. Caller is
// the address the oracle presents; it must match the configured oracle
// address or the callback is rejected.
type OracleCallbackRequest struct {
	Caller       string   `json:"caller" binding:"required"`
	RequestID    uint64   `json:"requestId" binding:"required"`
	RandomValues []string `json:"randomValues" binding:"required"`
}

// OracleCallback handles POST /oracle/callback
func (h *LotteryHandler) OracleCallback(c *gin.Context) {
	var request OracleCallbackRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	caller, err := utils.ParseAddress(request.Caller)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid caller address format"})
		return
	}
	values, err := utils.ParseAmounts(request.RandomValues)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid random value format"})
		return
	}

	result, err := h.lotteryService.FulfillRandomness(c.Request.Context(), caller, request.RequestID, values)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthorizedOracleCaller):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAlreadyFulfilled), errors.Is(err, services.ErrReentrantCall):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrTokenNotConfigured), errors.Is(err, services.ErrCapExceeded):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fulfill randomness: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// DepositRequest is the payload for POST /lottery/deposit
type DepositRequest struct {
	From   string `json:"from" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// Deposit handles POST /lottery/deposit
func (h *LotteryHandler) Deposit(c *gin.Context) {
	var request DepositRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	from, err := utils.ParseAddress(request.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address format"})
		return
	}
	amount, err := utils.ParseAmount(request.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount format"})
		return
	}

	if err := h.lotteryService.Deposit(c.Request.Context(), from, amount); err != nil {
		if errors.Is(err, services.ErrWrongAmount) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deposit: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deposit accepted"})
}

// WithdrawRequest is the payload for POST /admin/lottery/withdraw
type WithdrawRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// Withdraw handles POST /admin/lottery/withdraw
func (h *LotteryHandler) Withdraw(c *gin.Context) {
	var request WithdrawRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := utils.ParseAmount(request.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount format"})
		return
	}

	if err := h.lotteryService.Withdraw(c.Request.Context(), amount); err != nil {
		switch {
		case errors.Is(err, services.ErrWithdrawInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInsufficientBalanceForRequest), errors.Is(err, services.ErrWrongAmount):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to withdraw: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Withdrawal executed"})
}

// SetEntryFeeRequest is the payload for PUT /admin/lottery/entry-fee
type SetEntryFeeRequest struct {
	Fee string `json:"fee" binding:"required"`
}

// SetEntryFee handles PUT /admin/lottery/entry-fee
func (h *LotteryHandler) SetEntryFee(c *gin.Context) {
	var request SetEntryFeeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fee, err := utils.ParseAmount(request.Fee)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fee format"})
		return
	}
	if err := h.lotteryService.SetEntryFee(c.Request.Context(), fee); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set entry fee: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry fee updated"})
}

// SetIntervalRequest is the payload for PUT /admin/lottery/interval
type SetIntervalRequest struct {
	Seconds uint64 `json:"seconds" binding:"required"`
}

// SetInterval handles PUT /admin/lottery/interval
func (h *LotteryHandler) SetInterval(c *gin.Context) {
	var request SetIntervalRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.lotteryService.SetIntervalSeconds(c.Request.Context(), request.Seconds); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set interval: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Draw interval updated"})
}

// SetRewardTokenRequest is the payload for PUT /admin/lottery/reward-token
type SetRewardTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// SetRewardToken handles PUT /admin/lottery/reward-token
func (h *LotteryHandler) SetRewardToken(c *gin.Context) {
	var request SetRewardTokenRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, err := utils.ParseAddress(request.Token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token address format"})
		return
	}
	if err := h.lotteryService.SetRewardToken(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set reward token: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reward token updated"})
}

// GetRound handles GET /lottery
func (h *LotteryHandler) GetRound(c *gin.Context) {
	info, err := h.lotteryService.RoundInfo(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve round info: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

// GetParticipants handles GET /lottery/participants
func (h *LotteryHandler) GetParticipants(c *gin.Context) {
	participants, err := h.lotteryService.Participants(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve participants: " + err.Error()})
		return
	}
	out := make([]string, len(participants))
	for i, p := range participants {
		out[i] = p.Hex()
	}
	c.JSON(http.StatusOK, gin.H{"participants": out, "count": len(out)})
}

// GetParticipantByIndex handles GET /lottery/participants/:index
func (h *LotteryHandler) GetParticipantByIndex(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid index format"})
		return
	}
	participant, err := h.lotteryService.ParticipantByIndex(c.Request.Context(), index)
	if err != nil {
		if errors.Is(err, services.ErrIndexOutOfRange) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve participant: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": index, "address": participant.Hex()})
}

// GetRequests handles GET /lottery/requests
func (h *LotteryHandler) GetRequests(c *gin.Context) {
	requests, err := h.lotteryService.ListRequests(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve requests: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, requests)
}

// GetRequestStatus handles GET /lottery/requests/:id
func (h *LotteryHandler) GetRequestStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID format"})
		return
	}
	status, err := h.lotteryService.RequestStatus(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrRequestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve request: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/ByteToHex/vrf-lottery-backend/internal/services"
	"github.com/ByteToHex/vrf-lottery-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// LedgerHandler handles reward ledger HTTP requests
type LedgerHandler struct {
	ledgerService services.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService services.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// GetInfo handles GET /ledger
func (h *LedgerHandler) GetInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledgerService.Info(c.Request.Context()))
}

// GetBalance handles GET /ledger/balances/:address
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	address, err := utils.ParseAddress(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address format"})
		return
	}
	balance := h.ledgerService.BalanceOf(c.Request.Context(), address)
	c.JSON(http.StatusOK, gin.H{"address": address.Hex(), "balance": balance.String()})
}

// GetAllowance handles GET /ledger/allowances/:owner/:spender
func (h *LedgerHandler) GetAllowance(c *gin.Context) {
	owner, err := utils.ParseAddress(c.Param("owner"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid owner address format"})
		return
	}
	spender, err := utils.ParseAddress(c.Param("spender"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid spender address format"})
		return
	}
	allowance := h.ledgerService.Allowance(c.Request.Context(), owner, spender)
	c.JSON(http.StatusOK, gin.H{"owner": owner.Hex(), "spender": spender.Hex(), "allowance": allowance.String()})
}

// TransferRequest is the payload for POST /ledger/transfer
type TransferRequest struct {
	From   string `json:"from" binding:"required"`
	To     string `json:"to" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// Transfer handles POST /ledger/transfer
func (h *LedgerHandler) Transfer(c *gin.Context) {
	var request TransferRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	from, err := utils.ParseAddress(request.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from address format"})
		return
	}
	to, err := utils.ParseAddress(request.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to address format"})
		return
	}
	amount, err := utils.ParseAmount(request.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount format"})
		return
	}

	if err := h.ledgerService.Transfer(c.Request.Context(), from, to, amount); err != nil {
		if errors.Is(err, services.ErrInsufficientBalance) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transfer: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transfer executed"})
}

// ApproveRequest is the payload for POST /ledger/approve
type ApproveRequest struct {
	Owner   string `json:"owner" binding:"required"`
	Spender string `json:"spender" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
}

// Approve handles POST /ledger/approve
func (h *LedgerHandler) Approve(c *gin.Context) {
	var request ApproveRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	owner, err := utils.ParseAddress(request.Owner)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid owner address format"})
		return
	}
	spender, err := utils.ParseAddress(request.Spender)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid spender address format"})
		return
	}
	amount, err := utils.ParseAmount(request.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount format"})
		return
	}

	if err := h.ledgerService.Approve(c.Request.Context(), owner, spender, amount); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Approval set"})
}

// TransferFromRequest is the payload for POST /ledger/transfer-from
type TransferFromRequest struct {
	Spender string `json:"spender" binding:"required"`
	From    string `json:"from" binding:"required"`
	To      string `json:"to" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
}

// TransferFrom handles POST /ledger/transfer-from
func (h *LedgerHandler) TransferFrom(c *gin.Context) {
	var request TransferFromRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	spender, err := utils.ParseAddress(request.Spender)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid spender address format"})
		return
	}
	from, err := utils.ParseAddress(request.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from address format"})
		return
	}
	to, err := utils.ParseAddress(request.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to address format"})
		return
	}
	amount, err := utils.ParseAmount(request.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount format"})
		return
	}

	if err := h.ledgerService.TransferFrom(c.Request.Context(), spender, from, to, amount); err != nil {
		switch {
		case errors.Is(err, services.ErrInsufficientAllowance), errors.Is(err, services.ErrInsufficientBalance):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transfer: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transfer executed"})
}

// BurnRequest is the payload for POST /ledger/burn
type BurnRequest struct {
	From    string `json:"from" binding:"required"`
	Spender string `json:"spender"`
	Amount  string `json:"amount" binding:"required"`
}

// Burn handles POST /ledger/burn. When spender is set the burn is performed
// on behalf of spender against its allowance.
func (h *LedgerHandler) Burn(c *gin.Context) {
	var request BurnRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	from, err := utils.ParseAddress(request.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from address format"})
		return
	}
	amount, err := utils.ParseAmount(request.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount format"})
		return
	}

	if request.Spender != "" {
		spender, err := utils.ParseAddress(request.Spender)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid spender address format"})
			return
		}
		err = h.ledgerService.BurnFrom(c.Request.Context(), spender, from, amount)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInsufficientAllowance), errors.Is(err, services.ErrInsufficientBalance):
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to burn: " + err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Burn executed"})
		return
	}

	if err := h.ledgerService.Burn(c.Request.Context(), from, amount); err != nil {
		if errors.Is(err, services.ErrInsufficientBalance) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to burn: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Burn executed"})
}

// SetMinterRequest is the payload for PUT /admin/ledger/authorized-minter
type SetMinterRequest struct {
	Minter string `json:"minter" binding:"required"`
}

// SetAuthorizedMinter handles PUT /admin/ledger/authorized-minter
func (h *LedgerHandler) SetAuthorizedMinter(c *gin.Context) {
	var request SetMinterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	minter, err := utils.ParseAddress(request.Minter)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid minter address format"})
		return
	}
	if err := h.ledgerService.SetAuthorizedMinter(c.Request.Context(), minter); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set authorized minter: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Authorized minter updated"})
}

package routes

import (
	"net/http"

	"github.com/ByteToHex/vrf-lottery-backend/internal/config"
	"github.com/ByteToHex/vrf-lottery-backend/internal/handlers"
	"github.com/ByteToHex/vrf-lottery-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies carries the handlers wired in main
type HandlerDependencies struct {
	AuthHandler    *handlers.AuthHandler
	LotteryHandler *handlers.LotteryHandler
	LedgerHandler  *handlers.LedgerHandler
}

// SetupRouter sets up the router. Owner-only operations live under the
// protected /admin group; the oracle callback stays public because its
// authorization is the caller-address check inside the service.
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)
		}

		lottery := public.Group("/lottery")
		{
			lottery.GET("", deps.LotteryHandler.GetRound)
			lottery.POST("/participate", deps.LotteryHandler.Participate)
			lottery.POST("/draw", deps.LotteryHandler.RequestDraw)
			lottery.POST("/deposit", deps.LotteryHandler.Deposit)
			lottery.GET("/participants", deps.LotteryHandler.GetParticipants)
			lottery.GET("/participants/:index", deps.LotteryHandler.GetParticipantByIndex)
			lottery.GET("/requests", deps.LotteryHandler.GetRequests)
			lottery.GET("/requests/:id", deps.LotteryHandler.GetRequestStatus)
		}

		oracle := public.Group("/oracle")
		{
			oracle.POST("/callback", deps.LotteryHandler.OracleCallback)
		}

		ledger := public.Group("/ledger")
		{
			ledger.GET("", deps.LedgerHandler.GetInfo)
			ledger.GET("/balances/:address", deps.LedgerHandler.GetBalance)
			ledger.GET("/allowances/:owner/:spender", deps.LedgerHandler.GetAllowance)
			ledger.POST("/transfer", deps.LedgerHandler.Transfer)
			ledger.POST("/approve", deps.LedgerHandler.Approve)
			ledger.POST("/transfer-from", deps.LedgerHandler.TransferFrom)
			ledger.POST("/burn", deps.LedgerHandler.Burn)
		}
	}

	// Protected routes
	protected := router.Group("/api/v1/admin")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		lottery := protected.Group("/lottery")
		{
			lottery.PUT("/entry-fee", deps.LotteryHandler.SetEntryFee)
			lottery.PUT("/interval", deps.LotteryHandler.SetInterval)
			lottery.PUT("/reward-token", deps.LotteryHandler.SetRewardToken)
			lottery.POST("/withdraw", deps.LotteryHandler.Withdraw)
		}

		ledger := protected.Group("/ledger")
		{
			ledger.PUT("/authorized-minter", deps.LedgerHandler.SetAuthorizedMinter)
		}
	}

	return router
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ByteToHex/vrf-lottery-backend/api/routes"
	"github.com/ByteToHex/vrf-lottery-backend/internal/config"
	"github.com/ByteToHex/vrf-lottery-backend/internal/handlers"
	"github.com/ByteToHex/vrf-lottery-backend/internal/repositories"
	mongorepo "github.com/ByteToHex/vrf-lottery-backend/internal/repositories/mongodb"
	"github.com/ByteToHex/vrf-lottery-backend/internal/services"
	"github.com/ByteToHex/vrf-lottery-backend/internal/utils"
	"github.com/ByteToHex/vrf-lottery-backend/pkg/mongodb"
	"github.com/ByteToHex/vrf-lottery-backend/pkg/oracle"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

func main() {
	// .env is optional; environment variables win either way
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	// Connect to MongoDB
	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()
	db := mongoClient.Database(cfg.MongoDB.Database)

	// Initialize repositories
	var requestRepo repositories.RequestRepository = mongorepo.NewRequestRepository(db)
	var mintRepo repositories.MintRepository = mongorepo.NewMintRepository(db)
	var adminRepo repositories.AdminUserRepository = mongorepo.NewAdminUserRepository(db)

	// Parse the configured addresses and amounts
	selfAddr, err := utils.ParseAddress(cfg.Lottery.SelfAddress)
	if err != nil {
		slog.Error("Invalid Lottery.SelfAddress", "error", err)
		os.Exit(1)
	}
	oracleAddr, err := utils.ParseAddress(cfg.Oracle.Address)
	if err != nil {
		slog.Error("Invalid Oracle.Address", "error", err)
		os.Exit(1)
	}
	ownerAddr, err := utils.ParseAddress(cfg.Ledger.OwnerAddress)
	if err != nil {
		slog.Error("Invalid Ledger.OwnerAddress", "error", err)
		os.Exit(1)
	}
	var rewardToken common.Address
	if cfg.Lottery.RewardTokenAddress != "" {
		rewardToken, err = utils.ParseAddress(cfg.Lottery.RewardTokenAddress)
		if err != nil {
			slog.Error("Invalid Lottery.RewardTokenAddress", "error", err)
			os.Exit(1)
		}
	}
	entryFee, err := utils.ParseAmount(cfg.Lottery.EntryFee)
	if err != nil {
		slog.Error("Invalid Lottery.EntryFee", "error", err)
		os.Exit(1)
	}
	supplyCap, err := utils.ParseAmount(cfg.Ledger.Cap)
	if err != nil {
		slog.Error("Invalid Ledger.Cap", "error", err)
		os.Exit(1)
	}

	// Initialize the oracle provider
	var provider oracle.RandomnessProvider
	if cfg.Oracle.MockOracle {
		slog.Warn("Using mock oracle; randomness requests are served in-process")
		provider = oracle.NewMock(nil)
	} else {
		provider = oracle.NewClient(cfg.Oracle.BaseURL, time.Duration(cfg.Oracle.TimeoutSeconds)*time.Second)
	}

	// Initialize services. The lottery controller is registered as the
	// ledger's single authorized minter so reward mints pass the gate.
	ledgerService := services.NewLedgerService(cfg.Ledger.Name, cfg.Ledger.Symbol, cfg.Ledger.Decimals, supplyCap, ownerAddr, mintRepo)
	if err := ledgerService.SetAuthorizedMinter(context.Background(), selfAddr); err != nil {
		slog.Error("Failed to register lottery controller as minter", "error", err)
		os.Exit(1)
	}

	lotteryService := services.NewLotteryService(services.LotteryParams{
		SelfAddress:          selfAddr,
		OracleAddress:        oracleAddr,
		RewardToken:          rewardToken,
		EntryFee:             entryFee,
		IntervalSeconds:      cfg.Lottery.IntervalHours * 3600,
		CallbackGasLimit:     cfg.Lottery.CallbackGasLimit,
		RequestConfirmations: cfg.Lottery.RequestConfirmations,
		NumWords:             cfg.Lottery.NumWords,
	}, provider, ledgerService, requestRepo)

	authService := services.NewAuthService(adminRepo, cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	// Initialize handlers
	deps := routes.HandlerDependencies{
		AuthHandler:    handlers.NewAuthHandler(authService),
		LotteryHandler: handlers.NewLotteryHandler(lotteryService),
		LedgerHandler:  handlers.NewLedgerHandler(ledgerService),
	}

	router := routes.SetupRouter(cfg, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("Server exiting")
}

// setupLogger configures the default slog logger from the configured level
func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

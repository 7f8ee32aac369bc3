package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Oracle   OracleConfig
	Lottery  LotteryConfig
	Ledger   LedgerConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// OracleConfig holds the randomness oracle connection settings. Address is
// the caller identity the oracle presents on the fulfillment callback; only
// this address may fulfill a request.
type OracleConfig struct {
	BaseURL        string
	Address        string
	MockOracle     bool
	TimeoutSeconds int
}

// LotteryConfig holds the lottery controller settings. SelfAddress is the
// identity the controller presents to the reward ledger's mint gate.
type LotteryConfig struct {
	SelfAddress          string
	RewardTokenAddress   string
	EntryFee             string
	IntervalHours        uint64
	CallbackGasLimit     uint32
	RequestConfirmations uint16
	NumWords             uint32
}

// LedgerConfig holds the reward ledger settings
type LedgerConfig struct {
	Name         string
	Symbol       string
	Decimals     uint8
	Cap          string
	OwnerAddress string
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read configuration
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Unmarshal configuration
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "vrf-lottery")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("LogLevel", "info")

	viper.SetDefault("Oracle.BaseURL", "http://localhost:8546")
	viper.SetDefault("Oracle.Address", "0x0000000000000000000000000000000000000100")
	viper.SetDefault("Oracle.MockOracle", true)
	viper.SetDefault("Oracle.TimeoutSeconds", 10)

	viper.SetDefault("Lottery.SelfAddress", "0x0000000000000000000000000000000000000200")
	viper.SetDefault("Lottery.RewardTokenAddress", "")
	viper.SetDefault("Lottery.EntryFee", "500000")
	viper.SetDefault("Lottery.IntervalHours", 4)
	viper.SetDefault("Lottery.CallbackGasLimit", 100000)
	viper.SetDefault("Lottery.RequestConfirmations", 3)
	viper.SetDefault("Lottery.NumWords", 1)

	viper.SetDefault("Ledger.Name", "Lottery Reward Token")
	viper.SetDefault("Ledger.Symbol", "LRT")
	viper.SetDefault("Ledger.Decimals", 18)
	viper.SetDefault("Ledger.Cap", "1000000000000000000000000000")
	viper.SetDefault("Ledger.OwnerAddress", "0x0000000000000000000000000000000000000300")
}

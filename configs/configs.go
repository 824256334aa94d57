// Package configs provides process configuration parsed from environment
// variables. All variables share the "WALLET_" prefix.
package configs

import (
	"time"

	"github.com/caarlos0/env/v6"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Host string `env:"HOST"`
	Port int    `env:"PORT" envDefault:"3000"`

	DatabaseDSN  string `env:"DATABASE_DSN" envDefault:"wallet.db"`
	DatabaseType string `env:"DATABASE_TYPE" envDefault:"sqlite"`

	// EncryptionKeyFile holds the process-wide AES key that protects
	// stored recovery phrases. Created on first run, loaded unchanged
	// afterwards. Losing the file makes existing wallets undecryptable.
	EncryptionKeyFile string `env:"ENCRYPTION_KEY_FILE" envDefault:"wallet_encryption.key"`

	EthereumRPCURL string `env:"ETHEREUM_RPC_URL" envDefault:"https://eth-mainnet.public.blastapi.io"`
	BSCRPCURL      string `env:"BSC_RPC_URL" envDefault:"https://bsc-dataseed.binance.org"`
	PolygonRPCURL  string `env:"POLYGON_RPC_URL" envDefault:"https://polygon-rpc.com"`
	SolanaRPCURL   string `env:"SOLANA_RPC_URL" envDefault:"https://api.mainnet-beta.solana.com"`
	TronAPIURL     string `env:"TRON_API_URL" envDefault:"https://api.trongrid.io"`
	TronAPIKey     string `env:"TRON_API_KEY"`

	// ChainRequestTimeout bounds each per-chain balance query
	// individually so one slow endpoint cannot stall the others.
	ChainRequestTimeout  time.Duration `env:"CHAIN_REQUEST_TIMEOUT" envDefault:"10s"`
	ServerRequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"60s"`

	// TransferMaxSendRate is the maximum number of outgoing transfers
	// per second across all users.
	TransferMaxSendRate int `env:"TRANSFER_MAX_SEND_RATE" envDefault:"10"`

	DisableIdempotencyMiddleware      bool   `env:"DISABLE_IDEMPOTENCY_MIDDLEWARE" envDefault:"false"`
	IdempotencyMiddlewareDatabaseType string `env:"IDEMPOTENCY_MIDDLEWARE_DATABASE_TYPE" envDefault:"local"`
	IdempotencyMiddlewareRedisURL     string `env:"IDEMPOTENCY_MIDDLEWARE_REDIS_URL"`

	LogLevel string `env:"LOGLEVEL" envDefault:"info"`
}

// Parse parses environment variables into a Config.
func Parse(opts ...env.Options) (*Config, error) {
	opts = append(opts, env.Options{Prefix: "WALLET_"})

	cfg := Config{}
	if err := env.Parse(&cfg, opts...); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ConfigureLogger sets the global logrus level.
func ConfigureLogger(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

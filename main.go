package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/gorilla/mux"
	"github.com/hodlport/wallet-api/chains"
	"github.com/hodlport/wallet-api/chains/evm"
	"github.com/hodlport/wallet-api/chains/solana"
	"github.com/hodlport/wallet-api/chains/tron"
	"github.com/hodlport/wallet-api/configs"
	"github.com/hodlport/wallet-api/datastore/gorm"
	"github.com/hodlport/wallet-api/handlers"
	"github.com/hodlport/wallet-api/handlers/middleware"
	"github.com/hodlport/wallet-api/keys/encryption"
	"github.com/hodlport/wallet-api/transfers"
	"github.com/hodlport/wallet-api/wallets"
	log "github.com/sirupsen/logrus"
)

const version = "0.1.0"

var (
	sha1ver   string // sha1 revision used to build the program
	buildTime string // when the executable was built
)

func main() {
	var printVersion bool

	flag.BoolVar(&printVersion, "version", false, "if true, print version and exit")
	flag.Parse()

	if printVersion {
		fmt.Printf("v%s build on %s from sha1 %s\n", version, buildTime, sha1ver)
		os.Exit(0)
	}

	cfg, err := configs.Parse()
	if err != nil {
		panic(err)
	}

	runServer(cfg)

	os.Exit(0)
}

func runServer(cfg *configs.Config) {
	configs.ConfigureLogger(cfg.LogLevel)

	log.Info("Starting server")

	// Database
	db, err := gorm.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer gorm.Close(db)

	// Encryption key for recovery phrases at rest
	encryptionKey, err := encryption.LoadOrCreateKey(cfg.EncryptionKeyFile)
	if err != nil {
		log.Fatal(err)
	}
	crypter := encryption.NewAESCrypter(encryptionKey)

	// Chain adapters, one per family
	adapters := map[chains.Family]chains.Adapter{
		chains.FamilyEVM:    evm.NewAdapter(cfg),
		chains.FamilySolana: solana.NewAdapter(cfg),
		chains.FamilyTron:   tron.NewAdapter(cfg),
	}

	// Services
	walletService := wallets.NewService(
		cfg,
		wallets.NewGormStore(db),
		transfers.NewGormStore(db),
		crypter,
		adapters,
	)

	// HTTP handling
	walletHandler := handlers.NewWallets(walletService)

	r := mux.NewRouter()

	rv := r.PathPrefix("/v1").Subrouter()

	// Health
	rv.HandleFunc("/health/ready", handlers.HandleHealthReady).Methods(http.MethodGet)

	// Wallets
	rv.Handle("/wallets/{userId}", walletHandler.Create()).Methods(http.MethodPost)    // create
	rv.Handle("/wallets/{userId}", walletHandler.Details()).Methods(http.MethodGet)    // details
	rv.Handle("/wallets/{userId}", walletHandler.Remove()).Methods(http.MethodDelete)  // deactivate
	rv.Handle("/wallets/{userId}/balances", walletHandler.Balances()).Methods(http.MethodGet)

	// Transfers
	rv.Handle("/wallets/{userId}/transfers", walletHandler.CreateTransfer()).Methods(http.MethodPost) // send
	rv.Handle("/wallets/{userId}/transfers", walletHandler.ListTransfers()).Methods(http.MethodGet)   // list

	h := http.TimeoutHandler(r, cfg.ServerRequestTimeout, "request timed out")
	h = handlers.UseCors(h)
	h = middleware.LoggingHandler(h)
	h = handlers.UseCompress(h)
	h = handlers.UseJson(h)

	// Setup idempotency key middleware if it's enabled
	if !cfg.DisableIdempotencyMiddleware {
		var is handlers.IdempotencyStore
		switch cfg.IdempotencyMiddlewareDatabaseType {
		// Shared SQL/Gorm store (same as for main app)
		case "shared":
			is = handlers.NewIdempotencyStoreGorm(db)
		// Redis, separate from app db
		case "redis":
			if cfg.IdempotencyMiddlewareRedisURL == "" {
				log.Fatal("idempotency middleware db set to redis but Redis URL is empty")
			}
			pool := &redis.Pool{
				MaxIdle:   80,
				MaxActive: 12000,
				Dial: func() (redis.Conn, error) {
					return redis.DialURL(cfg.IdempotencyMiddlewareRedisURL)
				},
			}

			defer func() {
				log.Info("Closing Redis pool..")
				if err := pool.Close(); err != nil {
					log.Warn(err)
				}
			}()

			is = handlers.NewIdempotencyStoreRedis(pool)
		default:
			is = handlers.NewIdempotencyStoreLocal()
		}

		h = handlers.UseIdempotency(h, handlers.IdempotencyHandlerOptions{
			Expiry:      1 * time.Hour,
			IgnorePaths: []string{"/v1/health"}, // Health checks are read-only
		}, is)
	}

	// Server boilerplate
	srv := &http.Server{
		Handler:      h,
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		WriteTimeout: 0, // Disabled, set cfg.ServerRequestTimeout instead
		ReadTimeout:  0, // Disabled, set cfg.ServerRequestTimeout instead
	}

	// Run our server in a goroutine so that it doesn't block.
	go func() {
		log.
			WithFields(log.Fields{
				"host": cfg.Host,
				"port": cfg.Port,
			}).
			Info("Server listening")
		if err := srv.ListenAndServe(); err != nil {
			log.Warn(err)
		}
	}()

	// Trap interrupt and gracefully shutdown the server
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	sig := <-c

	log.Infof("Got signal: %s. Shutting down..", sig)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warnf("Error in server shutdown: %s", err)
	}
}

package main

import (
	"os"
	"testing"

	"github.com/hodlport/wallet-api/configs"
	"github.com/joho/godotenv"
)

func TestMain(m *testing.M) {
	// Optional overrides for local runs
	godotenv.Load(".env.test")

	os.Exit(m.Run())
}

func TestParseConfig(t *testing.T) {
	cfg, err := configs.Parse()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port == 0 {
		t.Error("config parsed without a port")
	}
	if cfg.ChainRequestTimeout <= 0 {
		t.Error("config parsed without a chain request timeout")
	}
}

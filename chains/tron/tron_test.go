package tron

import (
	"context"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/hodlport/wallet-api/chains"
	"github.com/hodlport/wallet-api/configs"
	"github.com/hodlport/wallet-api/errors"
	"github.com/hodlport/wallet-api/keys"
	"github.com/shopspring/decimal"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func testSeed(t *testing.T) keys.Seed {
	t.Helper()
	seed, err := keys.Phrase(testMnemonic).Seed()
	if err != nil {
		t.Fatal(err)
	}
	return seed
}

func testAdapter() *Adapter {
	return NewAdapter(&configs.Config{TronAPIURL: "http://127.0.0.1:1"})
}

func TestDeriveAddress(t *testing.T) {
	seed := testSeed(t)
	a := testAdapter()

	address, err := a.DeriveAddress(seed)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(address, "T") {
		t.Errorf("address %q does not start with T", address)
	}
	if len(address) != 34 {
		t.Errorf("address %q is %d characters, want 34", address, len(address))
	}

	decoded, version, err := base58.CheckDecode(address)
	if err != nil {
		t.Fatalf("address %q is not Base58Check: %v", address, err)
	}
	if version != AddressVersion {
		t.Errorf("version byte 0x%02x, want 0x%02x", version, AddressVersion)
	}
	if len(decoded) != 20 {
		t.Errorf("payload is %d bytes, want 20", len(decoded))
	}

	again, err := a.DeriveAddress(seed)
	if err != nil {
		t.Fatal(err)
	}
	if again != address {
		t.Errorf("derivation not deterministic: %s vs. %s", again, address)
	}
}

func TestDeriveAddressDiffersFromEVM(t *testing.T) {
	// Coin type 195 must not collapse to the Ethereum key
	seed := testSeed(t)

	tronKey, err := DeriveKey(seed)
	if err != nil {
		t.Fatal(err)
	}
	defer chains.ZeroKey(tronKey)

	evmKey, err := chains.DeriveSecp256k1Key(seed, 60)
	if err != nil {
		t.Fatal(err)
	}
	defer chains.ZeroKey(evmKey)

	if tronKey.D.Cmp(evmKey.D) == 0 {
		t.Error("Tron and EVM derivations produced the same key")
	}
}

func TestValidateAddress(t *testing.T) {
	seed := testSeed(t)
	address, err := testAdapter().DeriveAddress(seed)
	if err != nil {
		t.Fatal(err)
	}

	if err := ValidateAddress(address); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := []string{
		"",
		"0x9858EfFD232B4033E47d90003D41EC34EcaEda94",
		"TUEZSdKsoDHQMeZwihtdoBiN46zxhGWYd",        // truncated, bad checksum
		"1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2",       // bitcoin version byte
		address[:len(address)-1] + flipLast(address), // corrupted checksum
	}
	for _, s := range bad {
		if err := ValidateAddress(s); !errors.IsInvalidInput(err) {
			t.Errorf("expected InvalidInputError for %q, got: %v", s, err)
		}
	}
}

func flipLast(address string) string {
	if address[len(address)-1] == 'a' {
		return "b"
	}
	return "a"
}

func TestTransferRejectsBeforeNetwork(t *testing.T) {
	seed := testSeed(t)
	a := testAdapter()
	ctx := context.Background()

	validTo, err := a.DeriveAddress(seed)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("zero amount", func(t *testing.T) {
		_, err := a.Transfer(ctx, chains.ChainTron, seed, validTo, decimal.Zero)
		if !errors.IsInvalidInput(err) {
			t.Errorf("expected InvalidInputError, got: %v", err)
		}
	})

	t.Run("malformed recipient", func(t *testing.T) {
		_, err := a.Transfer(ctx, chains.ChainTron, seed, "not-an-address", decimal.NewFromInt(1))
		if !errors.IsInvalidInput(err) {
			t.Errorf("expected InvalidInputError, got: %v", err)
		}
	})

	t.Run("sub-SUN amount", func(t *testing.T) {
		amount, err := decimal.NewFromString("0.0000001")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := a.Transfer(ctx, chains.ChainTron, seed, validTo, amount); !errors.IsInvalidInput(err) {
			t.Errorf("expected InvalidInputError, got: %v", err)
		}
	})
}

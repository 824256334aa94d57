package evm

import (
	"context"
	"testing"

	"github.com/hodlport/wallet-api/chains"
	"github.com/hodlport/wallet-api/configs"
	"github.com/hodlport/wallet-api/errors"
	"github.com/hodlport/wallet-api/keys"
	"github.com/shopspring/decimal"
)

// BIP-39 reference mnemonic; the expected address for m/44'/60'/0'/0/0
// is a widely published test vector.
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
	return NewAdapter(&configs.Config{
		EthereumRPCURL: "http://127.0.0.1:1",
		BSCRPCURL:      "http://127.0.0.1:1",
		PolygonRPCURL:  "http://127.0.0.1:1",
	})
}

func TestDeriveAddress(t *testing.T) {
	seed := testSeed(t)
	a := testAdapter()

	address, err := a.DeriveAddress(seed)
	if err != nil {
		t.Fatal(err)
	}

	want := "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"
	if address != want {
		t.Errorf("got %s, want %s", address, want)
	}

	// Derivation is pure: repeating it yields the same address
	again, err := a.DeriveAddress(seed)
	if err != nil {
		t.Fatal(err)
	}
	if again != address {
		t.Errorf("derivation not deterministic: %s vs. %s", again, address)
	}
}

func TestValidateAddress(t *testing.T) {
	if err := ValidateAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	for _, s := range []string{"", "0x1234", "9858EfFD232B4033E47d90003D41EC34EcaEda9", "TUEZSdKsoDHQMeZwihtdoBiN46zxhGWYdH"} {
		if err := ValidateAddress(s); !errors.IsInvalidInput(err) {
			t.Errorf("expected InvalidInputError for %q, got: %v", s, err)
		}
	}
}

func TestTransferRejectsBeforeNetwork(t *testing.T) {
	seed := testSeed(t)
	a := testAdapter()
	ctx := context.Background()

	validTo := "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"

	t.Run("zero amount", func(t *testing.T) {
		_, err := a.Transfer(ctx, chains.ChainEthereum, seed, validTo, decimal.Zero)
		if !errors.IsInvalidInput(err) {
			t.Errorf("expected InvalidInputError, got: %v", err)
		}
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := a.Transfer(ctx, chains.ChainBSC, seed, validTo, decimal.NewFromInt(-1))
		if !errors.IsInvalidInput(err) {
			t.Errorf("expected InvalidInputError, got: %v", err)
		}
	})

	t.Run("malformed recipient", func(t *testing.T) {
		_, err := a.Transfer(ctx, chains.ChainPolygon, seed, "not-an-address", decimal.NewFromInt(1))
		if !errors.IsInvalidInput(err) {
			t.Errorf("expected InvalidInputError, got: %v", err)
		}
	})

	t.Run("sub-wei amount", func(t *testing.T) {
		// Positive but truncates to 0 wei; signing it would burn the
		// fee on a zero-value transfer
		amount, err := decimal.NewFromString("0.0000000000000000001")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := a.Transfer(ctx, chains.ChainEthereum, seed, validTo, amount); !errors.IsInvalidInput(err) {
			t.Errorf("expected InvalidInputError, got: %v", err)
		}
	})

	t.Run("non EVM chain", func(t *testing.T) {
		_, err := a.Transfer(ctx, chains.ChainSolana, seed, validTo, decimal.NewFromInt(1))
		if !errors.IsInvalidInput(err) {
			t.Errorf("expected InvalidInputError, got: %v", err)
		}
	})
}

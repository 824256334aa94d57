// Package chains defines the supported blockchains and the adapter
// capability set implemented once per chain family.
//
// Chains group into three families by address and transaction format:
// the EVM family (ethereum, bsc, polygon — one derivation, one address),
// the Solana family and the Tron family. Adding a chain means adding a
// constant here and covering it in the Family switch; there are no
// free-form chain strings below this package.
package chains

import (
	"context"

	"github.com/hodlport/wallet-api/errors"
	"github.com/hodlport/wallet-api/keys"
	"github.com/shopspring/decimal"
)

type Chain string

const (
	ChainEthereum Chain = "ethereum"
	ChainBSC      Chain = "bsc"
	ChainPolygon  Chain = "polygon"
	ChainSolana   Chain = "solana"
	ChainTron     Chain = "tron"
)

type Family int

const (
	FamilyEVM Family = iota
	FamilySolana
	FamilyTron
)

// All returns every supported chain, in display order.
func All() []Chain {
	return []Chain{ChainEthereum, ChainBSC, ChainPolygon, ChainSolana, ChainTron}
}

// Parse validates a chain identifier from external input.
func Parse(s string) (Chain, error) {
	switch Chain(s) {
	case ChainEthereum, ChainBSC, ChainPolygon, ChainSolana, ChainTron:
		return Chain(s), nil
	}
	return "", errors.InvalidInputf("unsupported chain %q", s)
}

func (c Chain) Family() Family {
	switch c {
	case ChainSolana:
		return FamilySolana
	case ChainTron:
		return FamilyTron
	default:
		return FamilyEVM
	}
}

// Symbol returns the native asset ticker for the chain.
func (c Chain) Symbol() string {
	switch c {
	case ChainEthereum:
		return "ETH"
	case ChainBSC:
		return "BNB"
	case ChainPolygon:
		return "MATIC"
	case ChainSolana:
		return "SOL"
	case ChainTron:
		return "TRX"
	}
	return ""
}

func (c Chain) String() string {
	return string(c)
}

// Adapter is implemented once per chain family. All secret inputs are
// passed as seeds; signing keys are derived inside the adapter for the
// duration of one call and zeroed before it returns.
type Adapter interface {
	// DeriveAddress derives the family's canonical address from seed
	// material. Pure: no network I/O, same seed always yields the
	// same address.
	DeriveAddress(seed keys.Seed) (string, error)

	// Balance fetches the current native asset balance of an address,
	// in whole units (ETH, SOL, ...). Endpoint failures are returned
	// as *errors.NetworkError.
	Balance(ctx context.Context, chain Chain, address string) (decimal.Decimal, error)

	// Transfer builds, signs and broadcasts a native asset transfer
	// and returns the transaction hash. The recipient address and
	// amount are validated before any network call is made.
	Transfer(ctx context.Context, chain Chain, seed keys.Seed, to string, amount decimal.Decimal) (string, error)
}

// ValidateAmount rejects non-positive transfer amounts. Shared by all
// adapters so the check happens even when the service layer is bypassed.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.InvalidInputf("amount must be greater than 0, got %s", amount.String())
	}
	return nil
}

// Package evm implements the chain adapter for EVM-compatible networks.
//
// One derivation (m/44'/60'/0'/0/0) and one address serve every EVM
// chain; the chain identifier on each call only selects the RPC
// endpoint and the EIP-155 chain ID.
package evm

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"net"

	stderrors "errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/hodlport/wallet-api/chains"
	"github.com/hodlport/wallet-api/configs"
	"github.com/hodlport/wallet-api/errors"
	"github.com/hodlport/wallet-api/keys"
	"github.com/shopspring/decimal"
)

// CoinType is the BIP-44 coin type shared by all EVM chains.
const CoinType = 60

// TransferGasLimit is the fixed gas cost of a native asset transfer.
const TransferGasLimit = 21000

// weiDecimals shifts between wei and whole native units.
const weiDecimals = 18

type network struct {
	rpcURL  string
	chainID *big.Int
}

type Adapter struct {
	networks map[chains.Chain]network
}

func NewAdapter(cfg *configs.Config) *Adapter {
	return &Adapter{
		networks: map[chains.Chain]network{
			chains.ChainEthereum: {cfg.EthereumRPCURL, big.NewInt(1)},
			chains.ChainBSC:      {cfg.BSCRPCURL, big.NewInt(56)},
			chains.ChainPolygon:  {cfg.PolygonRPCURL, big.NewInt(137)},
		},
	}
}

// DeriveKey derives the signing key for the EVM address. The caller
// must wipe it with chains.ZeroKey when done.
func DeriveKey(seed keys.Seed) (*ecdsa.PrivateKey, error) {
	return chains.DeriveSecp256k1Key(seed, CoinType)
}

func (a *Adapter) DeriveAddress(seed keys.Seed) (string, error) {
	key, err := DeriveKey(seed)
	if err != nil {
		return "", err
	}
	defer chains.ZeroKey(key)

	return crypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}

// ValidateAddress rejects anything that is not a 0x-prefixed 20 byte
// hex address.
func ValidateAddress(address string) error {
	if !common.IsHexAddress(address) {
		return errors.InvalidInputf("malformed EVM address %q", address)
	}
	return nil
}

func (a *Adapter) Balance(ctx context.Context, chain chains.Chain, address string) (decimal.Decimal, error) {
	n, err := a.network(chain)
	if err != nil {
		return decimal.Zero, err
	}

	if err := ValidateAddress(address); err != nil {
		return decimal.Zero, err
	}

	client, err := ethclient.DialContext(ctx, n.rpcURL)
	if err != nil {
		return decimal.Zero, &errors.NetworkError{Chain: chain.String(), Err: err}
	}
	defer client.Close()

	wei, err := client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return decimal.Zero, &errors.NetworkError{Chain: chain.String(), Err: err}
	}

	return decimal.NewFromBigInt(wei, -weiDecimals), nil
}

func (a *Adapter) Transfer(ctx context.Context, chain chains.Chain, seed keys.Seed, to string, amount decimal.Decimal) (string, error) {
	n, err := a.network(chain)
	if err != nil {
		return "", err
	}

	// Validate everything before touching the network or the key
	if err := chains.ValidateAmount(amount); err != nil {
		return "", err
	}
	if err := ValidateAddress(to); err != nil {
		return "", err
	}

	wei := amount.Shift(weiDecimals).BigInt()
	if wei.Sign() <= 0 {
		return "", errors.InvalidInputf("amount %s is below 1 wei", amount)
	}

	key, err := DeriveKey(seed)
	if err != nil {
		return "", err
	}
	defer chains.ZeroKey(key)

	from := crypto.PubkeyToAddress(key.PublicKey)

	client, err := ethclient.DialContext(ctx, n.rpcURL)
	if err != nil {
		return "", &errors.NetworkError{Chain: chain.String(), Err: err}
	}
	defer client.Close()

	nonce, err := client.PendingNonceAt(ctx, from)
	if err != nil {
		return "", &errors.NetworkError{Chain: chain.String(), Err: err}
	}

	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return "", &errors.NetworkError{Chain: chain.String(), Err: err}
	}

	tx := types.NewTransaction(nonce, common.HexToAddress(to), wei, TransferGasLimit, gasPrice, nil)

	signed, err := types.SignTx(tx, types.NewEIP155Signer(n.chainID), key)
	if err != nil {
		return "", err
	}

	if err := client.SendTransaction(ctx, signed); err != nil {
		var netErr net.Error
		if stderrors.As(err, &netErr) {
			return "", &errors.NetworkError{Chain: chain.String(), Err: err}
		}
		// The node answered and refused: surface its reason
		// (insufficient funds, nonce too low, ...)
		return "", &errors.TransactionError{Chain: chain.String(), Detail: err.Error(), Err: err}
	}

	return signed.Hash().Hex(), nil
}

func (a *Adapter) network(chain chains.Chain) (network, error) {
	n, ok := a.networks[chain]
	if !ok {
		return network{}, errors.InvalidInputf("chain %q is not an EVM chain", chain)
	}
	return n, nil
}

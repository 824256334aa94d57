// Package solana implements the chain adapter for the Solana family.
//
// Key material follows SLIP-10 ed25519 derivation at m/44'/501'/0'/0'
// (the Phantom/Solflare standard); transfers are system program
// transfers submitted over JSON-RPC.
package solana

import (
	"context"
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"math/big"
	"net"

	stderrors "errors"

	sdk "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/hodlport/wallet-api/chains"
	"github.com/hodlport/wallet-api/configs"
	"github.com/hodlport/wallet-api/errors"
	"github.com/hodlport/wallet-api/keys"
	"github.com/shopspring/decimal"
)

// CoinType is the BIP-44 coin type for Solana.
const CoinType = 501

const lamportDecimals = 9

const slip10Curve = "ed25519 seed"

const hardenedOffset = uint32(0x80000000)

type Adapter struct {
	endpoint string
}

func NewAdapter(cfg *configs.Config) *Adapter {
	return &Adapter{endpoint: cfg.SolanaRPCURL}
}

// DeriveKey derives the ed25519 signing key at m/44'/501'/0'/0'.
// The caller must wipe it with ZeroKey when done.
func DeriveKey(seed keys.Seed) (sdk.PrivateKey, error) {
	key, chainCode := slip10MasterKey(seed)

	// All segments hardened: ed25519 SLIP-10 has no public derivation
	for _, segment := range []uint32{44, CoinType, 0, 0} {
		key, chainCode = slip10DeriveChild(key, chainCode, segment+hardenedOffset)
	}

	priv := ed25519.NewKeyFromSeed(key)
	for i := range key {
		key[i] = 0
		chainCode[i] = 0
	}

	return sdk.PrivateKey(priv), nil
}

// ZeroKey wipes an ed25519 private key after signing.
func ZeroKey(key sdk.PrivateKey) {
	for i := range key {
		key[i] = 0
	}
}

func (a *Adapter) DeriveAddress(seed keys.Seed) (string, error) {
	key, err := DeriveKey(seed)
	if err != nil {
		return "", err
	}
	defer ZeroKey(key)

	return key.PublicKey().String(), nil
}

// ValidateAddress rejects anything that is not a base58 encoded 32 byte
// public key.
func ValidateAddress(address string) error {
	if _, err := sdk.PublicKeyFromBase58(address); err != nil {
		return errors.InvalidInputf("malformed Solana address %q", address)
	}
	return nil
}

func (a *Adapter) Balance(ctx context.Context, chain chains.Chain, address string) (decimal.Decimal, error) {
	pub, err := sdk.PublicKeyFromBase58(address)
	if err != nil {
		return decimal.Zero, errors.InvalidInputf("malformed Solana address %q", address)
	}

	client := rpc.New(a.endpoint)

	out, err := client.GetBalance(ctx, pub, rpc.CommitmentFinalized)
	if err != nil {
		return decimal.Zero, &errors.NetworkError{Chain: chain.String(), Err: err}
	}

	lamports := new(big.Int).SetUint64(out.Value)
	return decimal.NewFromBigInt(lamports, -lamportDecimals), nil
}

func (a *Adapter) Transfer(ctx context.Context, chain chains.Chain, seed keys.Seed, to string, amount decimal.Decimal) (string, error) {
	// Validate everything before touching the network or the key
	if err := chains.ValidateAmount(amount); err != nil {
		return "", err
	}

	recipient, err := sdk.PublicKeyFromBase58(to)
	if err != nil {
		return "", errors.InvalidInputf("malformed Solana address %q", to)
	}

	rawLamports := amount.Shift(lamportDecimals).BigInt()
	if rawLamports.Sign() <= 0 {
		return "", errors.InvalidInputf("amount %s is below 1 lamport", amount)
	}
	lamports := rawLamports.Uint64()

	key, err := DeriveKey(seed)
	if err != nil {
		return "", err
	}
	defer ZeroKey(key)

	from := key.PublicKey()

	client := rpc.New(a.endpoint)

	recent, err := client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", &errors.NetworkError{Chain: chain.String(), Err: err}
	}

	tx, err := sdk.NewTransaction(
		[]sdk.Instruction{
			system.NewTransferInstruction(lamports, from, recipient).Build(),
		},
		recent.Value.Blockhash,
		sdk.TransactionPayer(from),
	)
	if err != nil {
		return "", err
	}

	if _, err := tx.Sign(func(pub sdk.PublicKey) *sdk.PrivateKey {
		if pub.Equals(from) {
			return &key
		}
		return nil
	}); err != nil {
		return "", err
	}

	sig, err := client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentFinalized,
	})
	if err != nil {
		var netErr net.Error
		if stderrors.As(err, &netErr) {
			return "", &errors.NetworkError{Chain: chain.String(), Err: err}
		}
		return "", &errors.TransactionError{Chain: chain.String(), Detail: err.Error(), Err: err}
	}

	return sig.String(), nil
}

// slip10MasterKey generates the SLIP-10 ed25519 master key from a
// BIP-39 seed: HMAC-SHA512(Key="ed25519 seed", Data=seed).
func slip10MasterKey(seed []byte) (key, chainCode []byte) {
	mac := hmac.New(sha512.New, []byte(slip10Curve))
	mac.Write(seed)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}

// slip10DeriveChild performs hardened child derivation:
// data = 0x00 || parent_key || index (big-endian).
func slip10DeriveChild(key, chainCode []byte, index uint32) (childKey, childChainCode []byte) {
	data := make([]byte, 0, 37)
	data = append(data, 0x00)
	data = append(data, key...)

	var indexBytes [4]byte
	binary.BigEndian.PutUint32(indexBytes[:], index)
	data = append(data, indexBytes[:]...)

	mac := hmac.New(sha512.New, chainCode)
	mac.Write(data)
	sum := mac.Sum(nil)

	return sum[:32], sum[32:]
}

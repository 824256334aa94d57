// Package tron implements the chain adapter for Tron.
//
// Tron shares the secp256k1 curve with the EVM family but derives at
// coin type 195 and encodes addresses as Base58Check with a 0x41
// version byte. Transactions are built and broadcast through the
// TronGrid HTTP API: the node assembles the raw transaction, we verify
// its hash locally and sign it before broadcasting.
package tron

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/hodlport/wallet-api/chains"
	"github.com/hodlport/wallet-api/configs"
	"github.com/hodlport/wallet-api/errors"
	"github.com/hodlport/wallet-api/keys"
	"github.com/jpillora/backoff"
	"github.com/shopspring/decimal"
)

// CoinType is the BIP-44 coin type for Tron.
const CoinType = 195

// AddressVersion is the Base58Check version byte of mainnet addresses.
const AddressVersion = 0x41

// sunDecimals shifts between SUN and whole TRX.
const sunDecimals = 6

const apiKeyHeader = "TRON-PRO-API-KEY"

const maxAttempts = 3

type Adapter struct {
	apiURL string
	apiKey string
	client *http.Client
}

func NewAdapter(cfg *configs.Config) *Adapter {
	return &Adapter{
		apiURL: cfg.TronAPIURL,
		apiKey: cfg.TronAPIKey,
		client: http.DefaultClient,
	}
}

// DeriveKey derives the signing key for the Tron address. The caller
// must wipe it with chains.ZeroKey when done.
func DeriveKey(seed keys.Seed) (*ecdsa.PrivateKey, error) {
	return chains.DeriveSecp256k1Key(seed, CoinType)
}

// AddressFromKey encodes a public key as a mainnet Tron address:
// Base58Check(0x41 || last 20 bytes of Keccak-256(pubkey)).
func AddressFromKey(pub *ecdsa.PublicKey) string {
	raw := crypto.FromECDSAPub(pub)
	hash := crypto.Keccak256(raw[1:])
	return base58.CheckEncode(hash[12:], AddressVersion)
}

func (a *Adapter) DeriveAddress(seed keys.Seed) (string, error) {
	key, err := DeriveKey(seed)
	if err != nil {
		return "", err
	}
	defer chains.ZeroKey(key)

	return AddressFromKey(&key.PublicKey), nil
}

// ValidateAddress rejects anything that is not a Base58Check mainnet
// address.
func ValidateAddress(address string) error {
	decoded, version, err := base58.CheckDecode(address)
	if err != nil || version != AddressVersion || len(decoded) != 20 {
		return errors.InvalidInputf("malformed Tron address %q", address)
	}
	return nil
}

type accountsResponse struct {
	Data []struct {
		Balance int64 `json:"balance"`
	} `json:"data"`
}

func (a *Adapter) Balance(ctx context.Context, chain chains.Chain, address string) (decimal.Decimal, error) {
	if err := ValidateAddress(address); err != nil {
		return decimal.Zero, err
	}

	body, err := a.get(ctx, chain, fmt.Sprintf("/v1/accounts/%s", address))
	if err != nil {
		return decimal.Zero, err
	}

	var res accountsResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return decimal.Zero, &errors.NetworkError{Chain: chain.String(), Err: err}
	}

	// An address with no on-chain activity has no account row yet
	if len(res.Data) == 0 {
		return decimal.Zero, nil
	}

	return decimal.New(res.Data[0].Balance, -sunDecimals), nil
}

func (a *Adapter) Transfer(ctx context.Context, chain chains.Chain, seed keys.Seed, to string, amount decimal.Decimal) (string, error) {
	// Validate everything before touching the network or the key
	if err := chains.ValidateAmount(amount); err != nil {
		return "", err
	}
	if err := ValidateAddress(to); err != nil {
		return "", err
	}

	sun := amount.Shift(sunDecimals).IntPart()
	if sun <= 0 {
		return "", errors.InvalidInputf("amount %s is below 1 SUN", amount)
	}

	key, err := DeriveKey(seed)
	if err != nil {
		return "", err
	}
	defer chains.ZeroKey(key)

	from := AddressFromKey(&key.PublicKey)

	tx, txID, err := a.createTransaction(ctx, chain, from, to, sun)
	if err != nil {
		return "", err
	}

	sig, err := crypto.Sign(txID, key)
	if err != nil {
		return "", err
	}
	tx["signature"] = []string{hex.EncodeToString(sig)}

	if err := a.broadcastTransaction(ctx, chain, tx); err != nil {
		return "", err
	}

	return hex.EncodeToString(txID), nil
}

// createTransaction asks the node to assemble an unsigned transfer and
// verifies that the returned txID is the SHA-256 of the raw payload, so
// a compromised endpoint cannot make us sign something else.
func (a *Adapter) createTransaction(ctx context.Context, chain chains.Chain, from, to string, sun int64) (map[string]interface{}, []byte, error) {
	body, err := a.post(ctx, chain, "/wallet/createtransaction", map[string]interface{}{
		"owner_address": from,
		"to_address":    to,
		"amount":        sun,
		"visible":       true,
	})
	if err != nil {
		return nil, nil, err
	}

	var tx map[string]interface{}
	if err := json.Unmarshal(body, &tx); err != nil {
		return nil, nil, &errors.NetworkError{Chain: chain.String(), Err: err}
	}

	if msg, ok := tx["Error"].(string); ok {
		return nil, nil, &errors.TransactionError{Chain: chain.String(), Detail: msg}
	}

	txIDHex, _ := tx["txID"].(string)
	rawHex, _ := tx["raw_data_hex"].(string)
	if txIDHex == "" || rawHex == "" {
		return nil, nil, &errors.TransactionError{Chain: chain.String(), Detail: "node returned an incomplete transaction"}
	}

	raw, err := hex.DecodeString(rawHex)
	if err != nil {
		return nil, nil, &errors.TransactionError{Chain: chain.String(), Detail: "node returned invalid raw_data_hex", Err: err}
	}

	sum := sha256.Sum256(raw)
	if hex.EncodeToString(sum[:]) != txIDHex {
		return nil, nil, &errors.TransactionError{Chain: chain.String(), Detail: "transaction hash does not match its raw data"}
	}

	return tx, sum[:], nil
}

type broadcastResponse struct {
	Result  bool   `json:"result"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *Adapter) broadcastTransaction(ctx context.Context, chain chains.Chain, tx map[string]interface{}) error {
	body, err := a.post(ctx, chain, "/wallet/broadcasttransaction", tx)
	if err != nil {
		return err
	}

	var res broadcastResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return &errors.NetworkError{Chain: chain.String(), Err: err}
	}

	if !res.Result {
		detail := res.Code
		// The node hex-encodes its rejection message
		if decoded, err := hex.DecodeString(res.Message); err == nil && len(decoded) > 0 {
			detail = fmt.Sprintf("%s: %s", res.Code, decoded)
		}
		return &errors.TransactionError{Chain: chain.String(), Detail: detail}
	}

	return nil
}

func (a *Adapter) get(ctx context.Context, chain chains.Chain, path string) ([]byte, error) {
	return a.do(ctx, chain, http.MethodGet, path, nil)
}

func (a *Adapter) post(ctx context.Context, chain chains.Chain, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return a.do(ctx, chain, http.MethodPost, path, body)
}

// do performs one HTTP exchange against the API, retrying transport
// failures with exponential backoff. HTTP-level responses are returned
// as-is: the node reports domain errors in the body, not the status.
func (a *Adapter) do(ctx context.Context, chain chains.Chain, method, path string, payload []byte) ([]byte, error) {
	b := &backoff.Backoff{
		Min:    100 * time.Millisecond,
		Max:    time.Second,
		Factor: 2,
		Jitter: true,
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(b.Duration()):
			case <-ctx.Done():
				return nil, &errors.NetworkError{Chain: chain.String(), Err: ctx.Err()}
			}
		}

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, a.apiURL+path, reqBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if a.apiKey != "" {
			req.Header.Set(apiKeyHeader, a.apiKey)
		}

		res, err := a.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(res.Body)
		res.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if res.StatusCode >= 500 {
			lastErr = fmt.Errorf("node returned status %d", res.StatusCode)
			continue
		}

		return body, nil
	}

	return nil, &errors.NetworkError{Chain: chain.String(), Err: lastErr}
}

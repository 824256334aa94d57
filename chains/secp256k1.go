package chains

import (
	"crypto/ecdsa"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/hodlport/wallet-api/keys"
)

// DeriveSecp256k1Key derives the m/44'/coinType'/0'/0/0 private key for
// the secp256k1 chain families (EVM and Tron share the curve but use
// different coin types and address encodings).
func DeriveSecp256k1Key(seed keys.Seed, coinType uint32) (*ecdsa.PrivateKey, error) {
	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, err
	}

	path := []uint32{
		hdkeychain.HardenedKeyStart + 44,
		hdkeychain.HardenedKeyStart + coinType,
		hdkeychain.HardenedKeyStart + 0,
		0,
		0,
	}

	key := master
	for _, index := range path {
		key, err = key.Derive(index)
		if err != nil {
			return nil, err
		}
	}

	privKey, err := key.ECPrivKey()
	if err != nil {
		return nil, err
	}

	return privKey.ToECDSA(), nil
}

// ZeroKey wipes the scalar of a secp256k1 private key after signing.
func ZeroKey(key *ecdsa.PrivateKey) {
	if key == nil {
		return
	}
	key.D.SetInt64(0)
}

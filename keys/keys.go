// Package keys provides recovery phrase generation and seed derivation.
//
// A wallet is rooted in a single BIP-39 recovery phrase. The phrase and
// the seed expanded from it are the only secret inputs to address and
// signing key derivation; both are held as zeroable byte slices and must
// be destroyed by the caller as soon as signing is done.
package keys

import (
	"fmt"
	"strings"

	"github.com/hodlport/wallet-api/errors"
	"github.com/tyler-smith/go-bip39"
)

// PhraseEntropyBits is the entropy strength for new phrases; 128 bits
// encodes to 12 words.
const PhraseEntropyBits = 128

// Phrase is an "in flight" plaintext recovery phrase.
// It is never stored as-is; the wallet store only ever sees the
// encrypted form.
type Phrase []byte

// Seed is the BIP-39 seed expanded from a Phrase. Deterministic: the
// same phrase always yields the same seed.
type Seed []byte

// GeneratePhrase creates a fresh phrase from cryptographically random
// entropy.
func GeneratePhrase() (Phrase, error) {
	entropy, err := bip39.NewEntropy(PhraseEntropyBits)
	if err != nil {
		return nil, err
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, err
	}

	return Phrase(mnemonic), nil
}

// Seed validates the phrase and expands it into master seed material.
// Malformed input (wrong word count, unknown words, bad checksum) is
// rejected with errors.ErrInvalidPhrase instead of silently producing
// wrong keys downstream.
func (p Phrase) Seed() (Seed, error) {
	mnemonic := string(p)

	if !bip39.IsMnemonicValid(mnemonic) {
		words := len(strings.Fields(mnemonic))
		if words != 12 && words != 24 {
			return nil, fmt.Errorf("%w: expected 12 or 24 words, got %d", errors.ErrInvalidPhrase, words)
		}
		return nil, fmt.Errorf("%w: unknown word or checksum mismatch", errors.ErrInvalidPhrase)
	}

	// Empty passphrase, per the derivation the stored addresses were
	// created with.
	return Seed(bip39.NewSeed(mnemonic, "")), nil
}

func (p Phrase) String() string {
	return string(p)
}

// Words returns the number of words in the phrase.
func (p Phrase) Words() int {
	return len(strings.Fields(string(p)))
}

// Destroy zeroes the phrase in place.
func (p Phrase) Destroy() {
	for i := range p {
		p[i] = 0
	}
}

// Destroy zeroes the seed in place.
func (s Seed) Destroy() {
	for i := range s {
		s[i] = 0
	}
}

package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// AESCrypter implements Crypter with AES-GCM. The random nonce is
// prepended to the ciphertext. An authentication failure on decrypt
// means the key does not match or the data was tampered with; it is
// always surfaced as an error, never as garbage plaintext.
type AESCrypter struct {
	key []byte
}

func NewAESCrypter(key []byte) *AESCrypter {
	return &AESCrypter{key}
}

func (s *AESCrypter) Encrypt(message []byte) ([]byte, error) {
	c, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, message, nil), nil
}

func (s *AESCrypter) Decrypt(encrypted []byte) ([]byte, error) {
	c, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(encrypted) < nonceSize {
		return nil, fmt.Errorf("message too short")
	}

	nonce, ciphertext := encrypted[:nonceSize], encrypted[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, err
	}

	return plaintext, nil
}

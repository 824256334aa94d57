// Package encryption provides encryption and decryption for secrets at rest.
package encryption

// KeySize is the required symmetric key length (AES-256).
const KeySize = 32

type Crypter interface {
	Encrypt(message []byte) (encrypted []byte, err error)
	Decrypt(encrypted []byte) (message []byte, err error)
}

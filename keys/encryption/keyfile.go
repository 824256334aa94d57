package encryption

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// LoadOrCreateKey loads the process-wide encryption key from path,
// generating and persisting a new one on first run. The key file is the
// only copy: if it is lost, previously encrypted secrets cannot be
// recovered.
//
// The file holds the key hex-encoded with 0600 permissions.
func LoadOrCreateKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		key, err := hex.DecodeString(string(data))
		if err != nil {
			return nil, fmt.Errorf("key file %s is not valid hex: %w", path, err)
		}
		if len(key) != KeySize {
			return nil, fmt.Errorf("key file %s holds a %d byte key, expected %d", path, len(key), KeySize)
		}
		return key, nil
	}

	if !os.IsNotExist(err) {
		return nil, err
	}

	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, err
	}

	return key, nil
}

// Package wallets implements the wallet lifecycle: creation with fresh
// key material, encrypted phrase custody, balance reads and transfer
// dispatch across all supported chains.
package wallets

import (
	"time"

	"github.com/hodlport/wallet-api/chains"
)

// Wallet is one user's multi-chain wallet. Every address is derived
// from the same recovery phrase; the phrase itself is stored encrypted
// and decrypted only for the duration of a signing call.
type Wallet struct {
	ID              uint   `gorm:"column:id;primaryKey" json:"-"`
	UserID          string `gorm:"column:user_id;uniqueIndex" json:"userId"`
	EncryptedPhrase []byte `gorm:"column:encrypted_phrase" json:"-"`
	EthAddress      string `gorm:"column:eth_address" json:"-"`
	SolanaAddress   string `gorm:"column:solana_address" json:"-"`
	TronAddress     string `gorm:"column:tron_address" json:"-"`

	// IsActive is cleared on removal. The row is kept so the unique
	// user_id index keeps refusing a second wallet for the same user.
	IsActive bool `gorm:"column:is_active" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

func (Wallet) TableName() string {
	return "user_wallets"
}

// Addresses is the external view of a wallet's addresses. The EVM
// chains share one address by construction.
type Addresses struct {
	Ethereum string `json:"ethereum"`
	BSC      string `json:"bsc"`
	Polygon  string `json:"polygon"`
	Solana   string `json:"solana"`
	Tron     string `json:"tron"`
}

func (w *Wallet) Addresses() Addresses {
	return Addresses{
		Ethereum: w.EthAddress,
		BSC:      w.EthAddress,
		Polygon:  w.EthAddress,
		Solana:   w.SolanaAddress,
		Tron:     w.TronAddress,
	}
}

// AddressFor returns the wallet's address on the given chain.
func (w *Wallet) AddressFor(chain chains.Chain) string {
	switch chain.Family() {
	case chains.FamilySolana:
		return w.SolanaAddress
	case chains.FamilyTron:
		return w.TronAddress
	default:
		return w.EthAddress
	}
}

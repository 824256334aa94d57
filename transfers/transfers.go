// Package transfers records outgoing native asset transfers.
package transfers

import (
	"time"

	"github.com/google/uuid"
	"github.com/hodlport/wallet-api/chains"
	"github.com/shopspring/decimal"
)

// Transfer is one broadcast native transfer. Rows are written after a
// successful broadcast; the hash is the chain's own identifier for it.
type Transfer struct {
	ID        uuid.UUID       `gorm:"column:id;primaryKey" json:"transferId"`
	UserID    string          `gorm:"column:user_id;index" json:"userId"`
	Chain     chains.Chain    `gorm:"column:chain" json:"chain"`
	Recipient string          `gorm:"column:recipient" json:"recipient"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(38,18)" json:"amount"`
	TxHash    string          `gorm:"column:tx_hash" json:"txHash"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (Transfer) TableName() string {
	return "transfers"
}

// Store manages data regarding transfers.
type Store interface {
	InsertTransfer(t *Transfer) error
	TransfersForUser(userID string) ([]Transfer, error)
}

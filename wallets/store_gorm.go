package wallets

import (
	"strings"

	"github.com/hodlport/wallet-api/errors"
	"gorm.io/gorm"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	db.AutoMigrate(&Wallet{})
	return &GormStore{db}
}

func (s *GormStore) InsertWallet(w *Wallet) error {
	err := s.db.Create(w).Error
	if err != nil && isDuplicateKeyError(err) {
		return errors.ErrWalletExists
	}
	return err
}

func (s *GormStore) ActiveWallet(userID string) (Wallet, error) {
	w := Wallet{}
	err := s.db.
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&w).Error
	if err == gorm.ErrRecordNotFound {
		return Wallet{}, errors.ErrWalletNotFound
	}
	return w, err
}

func (s *GormStore) HasWallet(userID string) (bool, error) {
	var count int64
	err := s.db.
		Model(&Wallet{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) DeactivateWallet(userID string) error {
	res := s.db.
		Model(&Wallet{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrWalletNotFound
	}
	return nil
}

// isDuplicateKeyError sniffs the dialect-specific unique constraint
// violation. The unique user_id index is what arbitrates concurrent
// creates, so this is the one store error with defined semantics.
func isDuplicateKeyError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value") || // postgres
		strings.Contains(msg, "Duplicate entry") // mysql
}

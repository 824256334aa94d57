package transfers

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	db.AutoMigrate(&Transfer{})
	return &GormStore{db}
}

func (s *GormStore) InsertTransfer(t *Transfer) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return s.db.Create(t).Error
}

func (s *GormStore) TransfersForUser(userID string) ([]Transfer, error) {
	tt := []Transfer{}
	err := s.db.
		Where(&Transfer{UserID: userID}).
		Order("created_at desc").
		Find(&tt).Error
	return tt, err
}

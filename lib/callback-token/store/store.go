package callbacktokenstore

import (
	"time"

	dbmodels "leave-approval-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.CallbackToken) error
	GetByToken(token string) (*dbmodels.CallbackToken, error)
	// Consume атомарно гасит токен. consumed == false означает,
	// что токен уже был погашен параллельным вызовом.
	Consume(token string, usedAt time.Time) (consumed bool, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.CallbackToken) error {
	err := i.db.
		Create(&rec).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) GetByToken(token string) (*dbmodels.CallbackToken, error) {
	rec := dbmodels.CallbackToken{}
	err := i.db.
		Where("token = ?", token).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Consume(token string, usedAt time.Time) (consumed bool, err error) {
	tx := i.db.
		Model(&dbmodels.CallbackToken{}).
		Where("token = ?", token).
		Where("date_used IS NULL").
		Update("date_used", usedAt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

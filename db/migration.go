package db

import (
	dbmodels "leave-approval-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.LeaveRequest{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры LeaveRequest")
	}
	if err := DB.AutoMigrate(&dbmodels.CallbackToken{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры CallbackToken")
	}
	log.Info("Миграция прошла успешно")
	return nil
}

package leaverequeststore

import (
	"time"

	"leave-approval-backend/models"
	leaveapimodels "leave-approval-backend/models/api/leave"
	dbmodels "leave-approval-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrDuplicateRequest = errors.New("заявка с таким номером уже существует")
	ErrRequestNotFound  = errors.New("заявка не найдена")
)

type Provider interface {
	Create(rec dbmodels.LeaveRequest) error
	GetByID(id string) (rec *dbmodels.LeaveRequest, err error)
	// SetDecision переводит заявку из PENDING в терминальный статус.
	// updated == false означает, что заявка уже была решена (или не существует).
	SetDecision(id string, status models.LeaveStatus) (updated bool, err error)
	List(requesterEmail string, filter leaveapimodels.LeaveRequestFilter) (list []dbmodels.LeaveRequest, rowCount int64, err error)
	// ListAll без пагинации, для выгрузки реестра
	ListAll(requesterEmail string, status models.LeaveStatus) (list []dbmodels.LeaveRequest, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.LeaveRequest) error {
	err := i.db.
		Where("id = ?", rec.ID).
		First(&dbmodels.LeaveRequest{}).
		Error
	if err == nil {
		return ErrDuplicateRequest
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) GetByID(id string) (*dbmodels.LeaveRequest, error) {
	rec := dbmodels.LeaveRequest{}
	err := i.db.
		Where("id = ?", id).
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

func (i impl) SetDecision(id string, status models.LeaveStatus) (updated bool, err error) {
	tx := i.db.
		Model(&dbmodels.LeaveRequest{}).
		Where("id = ?", id).
		Where("status = ?", models.LeaveStatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (i impl) List(requesterEmail string, filter leaveapimodels.LeaveRequestFilter) (list []dbmodels.LeaveRequest, rowCount int64, err error) {
	tx := i.db.
		Model(&dbmodels.LeaveRequest{}).
		Where("requester_email = ?", requesterEmail)
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	err = tx.Count(&rowCount).Error
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	err = tx.
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, rowCount, nil
}

func (i impl) ListAll(requesterEmail string, status models.LeaveStatus) (list []dbmodels.LeaveRequest, err error) {
	tx := i.db.
		Where("requester_email = ?", requesterEmail)
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	err = tx.
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

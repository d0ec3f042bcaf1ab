package leaveapimodels

import (
	"time"

	"leave-approval-backend/models"
	apimodels "leave-approval-backend/models/api"
	dbmodels "leave-approval-backend/models/db"

	"github.com/pkg/errors"
)

type LeaveRequestCreateData struct {
	ApproverEmail string `json:"approver_email"` // почта согласующего
	LeaveType     string `json:"leave_type"`     // тип отпуска
	StartDate     string `json:"start_date"`     // дата начала (YYYY-MM-DD)
	EndDate       string `json:"end_date"`       // дата окончания (YYYY-MM-DD)
	Reason        string `json:"reason"`         // причина, опционально
}

func (l LeaveRequestCreateData) Validate() error {
	if l.ApproverEmail == "" {
		return errors.New("не указана почта согласующего")
	}
	if l.LeaveType == "" {
		return errors.New("не указан тип отпуска")
	}
	if l.StartDate == "" {
		return errors.New("не указана дата начала отпуска")
	}
	if l.EndDate == "" {
		return errors.New("не указана дата окончания отпуска")
	}
	return nil
}

type LeaveRequestCreatedResponse struct {
	RequestID string `json:"request_id"`
}

type LeaveRequestView struct {
	LeaveRequestCreateData
	ID             string             `json:"id"`
	RequesterEmail string             `json:"requester_email"`
	Status         models.LeaveStatus `json:"status"`
	CreationDate   time.Time          `json:"creation_date"`
}

func LeaveRequestConvert(rec dbmodels.LeaveRequest) LeaveRequestView {
	return LeaveRequestView{
		LeaveRequestCreateData: LeaveRequestCreateData{
			ApproverEmail: rec.ApproverEmail,
			LeaveType:     rec.LeaveType,
			StartDate:     rec.StartDate,
			EndDate:       rec.EndDate,
			Reason:        rec.Reason,
		},
		ID:             rec.ID,
		RequesterEmail: rec.RequesterEmail,
		Status:         rec.Status,
		CreationDate:   rec.CreatedAt,
	}
}

type LeaveRequestFilter struct {
	apimodels.Pagination
	Status models.LeaveStatus `json:"status"` // фильтр по статусу, опционально
}

func (f LeaveRequestFilter) Validate() error {
	switch f.Status {
	case "", models.LeaveStatusPending, models.LeaveStatusApproved, models.LeaveStatusRejected:
		return nil
	}
	return errors.New("неизвестный статус заявки")
}

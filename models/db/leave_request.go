package dbmodels

import (
	"leave-approval-backend/models"
	"time"
)

// LeaveRequest заявка на отпуск и её жизненный цикл согласования.
// Статус меняет только lib/leave-workflow, остальные компоненты читают запись как есть.
type LeaveRequest struct {
	ID             string `gorm:"primaryKey;type:varchar(64)" json:"id"`
	RequesterEmail string `gorm:"type:varchar(255);index" json:"requester_email"`
	ApproverEmail  string `gorm:"type:varchar(255)" json:"approver_email"`
	LeaveType      string `gorm:"type:varchar(100)" json:"leave_type"`
	StartDate      string `gorm:"type:varchar(10)" json:"start_date"`
	EndDate        string `gorm:"type:varchar(10)" json:"end_date"`
	Reason         string `json:"reason"`
	Status         models.LeaveStatus `gorm:"type:varchar(20);index" json:"status"`
	CreatedAt      time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

package models

// LeaveStatus статус заявки на отпуск
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "PENDING"  // ожидает решения согласующего
	LeaveStatusApproved LeaveStatus = "APPROVED" // согласована
	LeaveStatusRejected LeaveStatus = "REJECTED" // отклонена
)

func (s LeaveStatus) IsTerminal() bool {
	return s == LeaveStatusApproved || s == LeaveStatusRejected
}

// DecisionApprove единственное значение решения, приводящее к согласованию.
// Любое другое непустое значение трактуется как отклонение.
const DecisionApprove = "approve"

const DecisionReject = "reject"

// StatusByDecision маппинг решения из колбэка в терминальный статус
func StatusByDecision(decision string) LeaveStatus {
	if decision == DecisionApprove {
		return LeaveStatusApproved
	}
	return LeaveStatusRejected
}

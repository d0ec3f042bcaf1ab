package notification

import (
	"fmt"
	"net/url"

	"leave-approval-backend/lib/smtp"
	"leave-approval-backend/models"
	dbmodels "leave-approval-backend/models/db"

	"github.com/pkg/errors"
)

type Provider interface {
	// SendAsk отправляет согласующему письмо со ссылками согласовать/отклонить.
	// baseURL — origin, под которым сервис доступен согласующему.
	SendAsk(rec dbmodels.LeaveRequest, token, baseURL string) error
	// SendOutcome отправляет заявителю письмо с итоговым решением
	SendOutcome(rec dbmodels.LeaveRequest) error
}

var Instance Provider

func NewHandler(emailFrom string) {
	Instance = NewInstance(smtp.Instance, emailFrom)
}

func NewInstance(sender smtp.Provider, emailFrom string) Provider {
	return &impl{
		sender:    sender,
		emailFrom: emailFrom,
	}
}

type impl struct {
	sender    smtp.Provider
	emailFrom string
}

func (i impl) SendAsk(rec dbmodels.LeaveRequest, token, baseURL string) error {
	message := fmt.Sprintf(
		"Сотрудник %s запрашивает отпуск.\r\n"+
			"Тип: %s\r\nПериод: с %s по %s\r\n",
		rec.RequesterEmail, rec.LeaveType, rec.StartDate, rec.EndDate)
	if rec.Reason != "" {
		message += fmt.Sprintf("Причина: %s\r\n", rec.Reason)
	}
	message += fmt.Sprintf(
		"\r\nСогласовать: %s\r\nОтклонить: %s\r\n",
		decisionLink(baseURL, rec.ID, models.DecisionApprove, token),
		decisionLink(baseURL, rec.ID, models.DecisionReject, token))
	err := i.sender.SendEMail(i.emailFrom, rec.ApproverEmail, message, fmt.Sprintf("Заявка %s на согласование", rec.ID))
	if err != nil {
		return errors.Wrap(err, "ошибка отправки письма согласующему")
	}
	return nil
}

func (i impl) SendOutcome(rec dbmodels.LeaveRequest) error {
	var verdict string
	if rec.Status == models.LeaveStatusApproved {
		verdict = "согласована"
	} else {
		verdict = "отклонена"
	}
	message := fmt.Sprintf(
		"Ваша заявка %s на отпуск (%s, с %s по %s) %s.\r\n",
		rec.ID, rec.LeaveType, rec.StartDate, rec.EndDate, verdict)
	err := i.sender.SendEMail(i.emailFrom, rec.RequesterEmail, message, fmt.Sprintf("Решение по заявке %s", rec.ID))
	if err != nil {
		return errors.Wrap(err, "ошибка отправки письма заявителю")
	}
	return nil
}

func decisionLink(baseURL, requestID, decision, token string) string {
	params := url.Values{}
	params.Set("request_id", requestID)
	params.Set("decision", decision)
	params.Set("token", token)
	return fmt.Sprintf("%s/api/v1/approval/decision?%s", baseURL, params.Encode())
}

package leaveworkflow

import (
	"fmt"
	"time"

	"leave-approval-backend/db"
	callbacktoken "leave-approval-backend/lib/callback-token"
	leaverequeststore "leave-approval-backend/lib/leave-request/store"
	"leave-approval-backend/lib/notification"
	"leave-approval-backend/models"
	leaveapimodels "leave-approval-backend/models/api/leave"
	dbmodels "leave-approval-backend/models/db"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	ErrAlreadyDecided = errors.New("решение по заявке уже принято")
	ErrEmptyParams    = errors.New("не все параметры заполнены")
)

type Provider interface {
	// Create сохраняет заявку в статусе PENDING, выпускает токен
	// и отправляет согласующему письмо со ссылками на решение.
	// Заявка становится durable до любой отправки: упавшая отправка
	// оставляет запись PENDING, повтор отправки — забота вызывающей стороны.
	Create(requesterEmail string, data leaveapimodels.LeaveRequestCreateData, baseURL string) (id string, err error)
	// Resume возобновляет приостановленную заявку по токену из письма.
	// Повторный вызов с тем же токеном возвращает ошибку гашения,
	// не переотправляя уведомление и не трогая статус.
	Resume(requestID, decision, token string) (status models.LeaveStatus, err error)
	GetByID(requestID string) (view leaveapimodels.LeaveRequestView, err error)
	List(requesterEmail string, filter leaveapimodels.LeaveRequestFilter) (list []leaveapimodels.LeaveRequestView, rowCount int64, err error)
	// ListAll без пагинации, для выгрузки реестра в xlsx
	ListAll(requesterEmail string, status models.LeaveStatus) (list []dbmodels.LeaveRequest, err error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(
		leaverequeststore.NewInstance(db.DB),
		callbacktoken.Instance,
		notification.Instance,
	)
}

func NewInstance(store leaverequeststore.Provider, tokens callbacktoken.Provider, notifier notification.Provider) Provider {
	return &impl{
		store:    store,
		tokens:   tokens,
		notifier: notifier,
	}
}

type impl struct {
	store    leaverequeststore.Provider
	tokens   callbacktoken.Provider
	notifier notification.Provider
}

func (i impl) Create(requesterEmail string, data leaveapimodels.LeaveRequestCreateData, baseURL string) (id string, err error) {
	if requesterEmail == "" {
		return "", errors.New("не определена почта заявителя")
	}
	if err = data.Validate(); err != nil {
		return "", err
	}
	rec := dbmodels.LeaveRequest{
		ID:             generateRequestID(),
		RequesterEmail: requesterEmail,
		ApproverEmail:  data.ApproverEmail,
		LeaveType:      data.LeaveType,
		StartDate:      data.StartDate,
		EndDate:        data.EndDate,
		Reason:         data.Reason,
		Status:         models.LeaveStatusPending,
		CreatedAt:      time.Now(),
	}
	err = i.store.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка сохранения заявки")
	}
	token, err := i.tokens.Issue(rec.ID)
	if err != nil {
		return rec.ID, err
	}
	err = i.notifier.SendAsk(rec, token, baseURL)
	if err != nil {
		// запись уже durable, повтор отправки остается за вызывающей стороной
		return rec.ID, errors.Wrap(err, "заявка сохранена, но письмо согласующему не отправлено")
	}
	return rec.ID, nil
}

func (i impl) Resume(requestID, decision, token string) (status models.LeaveStatus, err error) {
	if requestID == "" || decision == "" || token == "" {
		return "", ErrEmptyParams
	}
	tokenRequestID, err := i.tokens.Redeem(token)
	if err != nil {
		return "", err
	}
	if tokenRequestID != requestID {
		return "", callbacktoken.ErrTokenNotFound
	}
	status = models.StatusByDecision(decision)
	updated, err := i.store.SetDecision(requestID, status)
	if err != nil {
		return "", errors.Wrap(err, "ошибка обновления статуса заявки")
	}
	if !updated {
		return "", ErrAlreadyDecided
	}
	rec, err := i.store.GetByID(requestID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения заявки")
	}
	if rec == nil {
		return "", leaverequeststore.ErrRequestNotFound
	}
	err = i.notifier.SendOutcome(*rec)
	if err != nil {
		// решение уже зафиксировано, откатывать его нельзя
		log.WithError(err).
			WithField("request_id", requestID).
			Error("решение принято, но уведомление заявителю не отправлено")
		return status, err
	}
	return status, nil
}

func (i impl) GetByID(requestID string) (leaveapimodels.LeaveRequestView, error) {
	rec, err := i.store.GetByID(requestID)
	if err != nil {
		return leaveapimodels.LeaveRequestView{}, err
	}
	if rec == nil {
		return leaveapimodels.LeaveRequestView{}, leaverequeststore.ErrRequestNotFound
	}
	return leaveapimodels.LeaveRequestConvert(*rec), nil
}

func (i impl) List(requesterEmail string, filter leaveapimodels.LeaveRequestFilter) ([]leaveapimodels.LeaveRequestView, int64, error) {
	recs, rowCount, err := i.store.List(requesterEmail, filter)
	if err != nil {
		return nil, 0, err
	}
	list := make([]leaveapimodels.LeaveRequestView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, leaveapimodels.LeaveRequestConvert(rec))
	}
	return list, rowCount, nil
}

func (i impl) ListAll(requesterEmail string, status models.LeaveStatus) ([]dbmodels.LeaveRequest, error) {
	return i.store.ListAll(requesterEmail, status)
}

func generateRequestID() string {
	return fmt.Sprintf("LEAVE-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

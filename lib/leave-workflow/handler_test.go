package leaveworkflow

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	callbacktoken "leave-approval-backend/lib/callback-token"
	leaverequeststore "leave-approval-backend/lib/leave-request/store"
	"leave-approval-backend/models"
	leaveapimodels "leave-approval-backend/models/api/leave"
	dbmodels "leave-approval-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu   sync.Mutex
	recs map[string]dbmodels.LeaveRequest
}

func newFakeStore() *fakeStore {
	return &fakeStore{recs: map[string]dbmodels.LeaveRequest{}}
}

func (f *fakeStore) Create(rec dbmodels.LeaveRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.recs[rec.ID]; ok {
		return leaverequeststore.ErrDuplicateRequest
	}
	f.recs[rec.ID] = rec
	return nil
}

func (f *fakeStore) GetByID(id string) (*dbmodels.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recs[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeStore) SetDecision(id string, status models.LeaveStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recs[id]
	if !ok || rec.Status != models.LeaveStatusPending {
		return false, nil
	}
	rec.Status = status
	rec.UpdatedAt = time.Now()
	f.recs[id] = rec
	return true, nil
}

func (f *fakeStore) List(requesterEmail string, filter leaveapimodels.LeaveRequestFilter) ([]dbmodels.LeaveRequest, int64, error) {
	list, err := f.ListAll(requesterEmail, filter.Status)
	return list, int64(len(list)), err
}

func (f *fakeStore) ListAll(requesterEmail string, status models.LeaveStatus) ([]dbmodels.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := []dbmodels.LeaveRequest{}
	for _, rec := range f.recs {
		if rec.RequesterEmail != requesterEmail {
			continue
		}
		if status != "" && rec.Status != status {
			continue
		}
		list = append(list, rec)
	}
	return list, nil
}

type fakeTokens struct {
	mu     sync.Mutex
	seq    int
	tokens map[string]string // token -> requestID
	used   map[string]bool
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{tokens: map[string]string{}, used: map[string]bool{}}
}

func (f *fakeTokens) Issue(requestID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	token := fmt.Sprintf("token-%d", f.seq)
	f.tokens[token] = requestID
	return token, nil
}

func (f *fakeTokens) Redeem(token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	requestID, ok := f.tokens[token]
	if !ok {
		return "", callbacktoken.ErrTokenNotFound
	}
	if f.used[token] {
		return "", callbacktoken.ErrTokenAlreadyConsumed
	}
	f.used[token] = true
	return requestID, nil
}

type fakeNotifier struct {
	mu          sync.Mutex
	store       *fakeStore
	askRecs     []dbmodels.LeaveRequest
	askTokens   []string
	askBaseURLs []string
	// статус заявки в сторе на момент отправки письма согласующему
	askStoredStatus []models.LeaveStatus
	outcomeRecs     []dbmodels.LeaveRequest
	failAsk         bool
	failOutcome     bool
}

func (f *fakeNotifier) SendAsk(rec dbmodels.LeaveRequest, token, baseURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAsk {
		return errors.New("smtp недоступен")
	}
	stored, _ := f.store.GetByID(rec.ID)
	if stored == nil {
		return errors.New("заявка не сохранена до отправки письма")
	}
	f.askRecs = append(f.askRecs, rec)
	f.askTokens = append(f.askTokens, token)
	f.askBaseURLs = append(f.askBaseURLs, baseURL)
	f.askStoredStatus = append(f.askStoredStatus, stored.Status)
	return nil
}

func (f *fakeNotifier) SendOutcome(rec dbmodels.LeaveRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOutcome {
		return errors.New("smtp недоступен")
	}
	f.outcomeRecs = append(f.outcomeRecs, rec)
	return nil
}

func newTestHandler() (*fakeStore, *fakeTokens, *fakeNotifier, Provider) {
	store := newFakeStore()
	tokens := newFakeTokens()
	notifier := &fakeNotifier{store: store}
	return store, tokens, notifier, NewInstance(store, tokens, notifier)
}

func validCreateData() leaveapimodels.LeaveRequestCreateData {
	return leaveapimodels.LeaveRequestCreateData{
		ApproverEmail: "approver@x.com",
		LeaveType:     "Vacation",
		StartDate:     "2025-04-01",
		EndDate:       "2025-04-05",
		Reason:        "отпуск у моря",
	}
}

func TestCreate(t *testing.T) {
	t.Run(`create check`, func(t *testing.T) {
		store, tokens, notifier, handler := newTestHandler()
		id, err := handler.Create("user@x.com", validCreateData(), "http://localhost:8080")
		require.Nil(t, err)
		require.True(t, strings.HasPrefix(id, "LEAVE-"))

		rec, err := store.GetByID(id)
		require.Nil(t, err)
		require.NotNil(t, rec)
		require.Equal(t, models.LeaveStatusPending, rec.Status)
		require.Equal(t, "user@x.com", rec.RequesterEmail)
		require.Equal(t, "approver@x.com", rec.ApproverEmail)

		require.Len(t, notifier.askRecs, 1)
		require.Equal(t, id, notifier.askRecs[0].ID)
		require.Equal(t, "http://localhost:8080", notifier.askBaseURLs[0])
		// заявка durable и в статусе PENDING до отправки письма
		require.Equal(t, models.LeaveStatusPending, notifier.askStoredStatus[0])
		// выпущенный токен привязан к заявке
		require.Equal(t, id, tokens.tokens[notifier.askTokens[0]])
	})

	t.Run(`create validation check`, func(t *testing.T) {
		cases := []func(d *leaveapimodels.LeaveRequestCreateData){
			func(d *leaveapimodels.LeaveRequestCreateData) { d.ApproverEmail = "" },
			func(d *leaveapimodels.LeaveRequestCreateData) { d.LeaveType = "" },
			func(d *leaveapimodels.LeaveRequestCreateData) { d.StartDate = "" },
			func(d *leaveapimodels.LeaveRequestCreateData) { d.EndDate = "" },
		}
		for _, mutate := range cases {
			store, _, notifier, handler := newTestHandler()
			data := validCreateData()
			mutate(&data)
			_, err := handler.Create("user@x.com", data, "http://localhost:8080")
			require.NotNil(t, err)
			require.Len(t, store.recs, 0)
			require.Len(t, notifier.askRecs, 0)
		}
	})

	t.Run(`create without requester check`, func(t *testing.T) {
		store, _, _, handler := newTestHandler()
		_, err := handler.Create("", validCreateData(), "http://localhost:8080")
		require.NotNil(t, err)
		require.Len(t, store.recs, 0)
	})

	t.Run(`create ask failure check`, func(t *testing.T) {
		store, _, notifier, handler := newTestHandler()
		notifier.failAsk = true
		id, err := handler.Create("user@x.com", validCreateData(), "http://localhost:8080")
		require.NotNil(t, err)
		// запись уже durable, повтор отправки — забота вызывающей стороны
		require.NotEqual(t, "", id)
		rec, err2 := store.GetByID(id)
		require.Nil(t, err2)
		require.NotNil(t, rec)
		require.Equal(t, models.LeaveStatusPending, rec.Status)
	})
}

func TestResume(t *testing.T) {
	createPending := func(t *testing.T) (*fakeStore, *fakeTokens, *fakeNotifier, Provider, string, string) {
		store, tokens, notifier, handler := newTestHandler()
		id, err := handler.Create("user@x.com", validCreateData(), "http://localhost:8080")
		require.Nil(t, err)
		token := notifier.askTokens[0]
		return store, tokens, notifier, handler, id, token
	}

	t.Run(`resume approve check`, func(t *testing.T) {
		store, _, notifier, handler, id, token := createPending(t)
		status, err := handler.Resume(id, models.DecisionApprove, token)
		require.Nil(t, err)
		require.Equal(t, models.LeaveStatusApproved, status)

		rec, err := store.GetByID(id)
		require.Nil(t, err)
		require.Equal(t, models.LeaveStatusApproved, rec.Status)

		require.Len(t, notifier.outcomeRecs, 1)
		require.Equal(t, "user@x.com", notifier.outcomeRecs[0].RequesterEmail)
		require.Equal(t, models.LeaveStatusApproved, notifier.outcomeRecs[0].Status)
	})

	t.Run(`resume decision mapping check`, func(t *testing.T) {
		// все, что не "approve", трактуется как отклонение
		for _, decision := range []string{models.DecisionReject, "deny", "APPROVE", "approved"} {
			store, _, _, handler, id, token := createPending(t)
			status, err := handler.Resume(id, decision, token)
			require.Nil(t, err)
			require.Equal(t, models.LeaveStatusRejected, status)
			rec, _ := store.GetByID(id)
			require.Equal(t, models.LeaveStatusRejected, rec.Status)
		}
	})

	t.Run(`resume replay check`, func(t *testing.T) {
		store, _, notifier, handler, id, token := createPending(t)
		_, err := handler.Resume(id, models.DecisionApprove, token)
		require.Nil(t, err)

		_, err = handler.Resume(id, models.DecisionReject, token)
		require.ErrorIs(t, err, callbacktoken.ErrTokenAlreadyConsumed)

		// статус не изменился, повторное уведомление не отправлено
		rec, _ := store.GetByID(id)
		require.Equal(t, models.LeaveStatusApproved, rec.Status)
		require.Len(t, notifier.outcomeRecs, 1)
	})

	t.Run(`resume unknown token check`, func(t *testing.T) {
		store, _, notifier, handler, id, _ := createPending(t)
		_, err := handler.Resume(id, models.DecisionApprove, "no-such-token")
		require.ErrorIs(t, err, callbacktoken.ErrTokenNotFound)
		rec, _ := store.GetByID(id)
		require.Equal(t, models.LeaveStatusPending, rec.Status)
		require.Len(t, notifier.outcomeRecs, 0)
	})

	t.Run(`resume mismatched request check`, func(t *testing.T) {
		_, _, notifier, handler, _, token := createPending(t)
		_, err := handler.Resume("LEAVE-0-other", models.DecisionApprove, token)
		require.ErrorIs(t, err, callbacktoken.ErrTokenNotFound)
		require.Len(t, notifier.outcomeRecs, 0)
	})

	t.Run(`resume empty params check`, func(t *testing.T) {
		_, _, _, handler, id, token := createPending(t)
		_, err := handler.Resume("", models.DecisionApprove, token)
		require.ErrorIs(t, err, ErrEmptyParams)
		_, err = handler.Resume(id, "", token)
		require.ErrorIs(t, err, ErrEmptyParams)
		_, err = handler.Resume(id, models.DecisionApprove, "")
		require.ErrorIs(t, err, ErrEmptyParams)
	})

	t.Run(`resume already decided check`, func(t *testing.T) {
		store, tokens, _, handler, id, _ := createPending(t)
		// решение уже принято, но токен почему-то не погашен
		updated, err := store.SetDecision(id, models.LeaveStatusApproved)
		require.Nil(t, err)
		require.True(t, updated)
		extraToken, err := tokens.Issue(id)
		require.Nil(t, err)

		_, err = handler.Resume(id, models.DecisionReject, extraToken)
		require.ErrorIs(t, err, ErrAlreadyDecided)
		rec, _ := store.GetByID(id)
		require.Equal(t, models.LeaveStatusApproved, rec.Status)
	})

	t.Run(`resume outcome failure check`, func(t *testing.T) {
		store, _, notifier, handler, id, token := createPending(t)
		notifier.failOutcome = true
		status, err := handler.Resume(id, models.DecisionApprove, token)
		require.NotNil(t, err)
		require.Equal(t, models.LeaveStatusApproved, status)
		// решение зафиксировано несмотря на ошибку уведомления
		rec, _ := store.GetByID(id)
		require.Equal(t, models.LeaveStatusApproved, rec.Status)
	})

	t.Run(`resume concurrent check`, func(t *testing.T) {
		store, _, notifier, handler, id, token := createPending(t)
		const n = 8
		results := make([]error, n)
		statuses := make([]models.LeaveStatus, n)
		wg := sync.WaitGroup{}
		for k := 0; k < n; k++ {
			wg.Add(1)
			go func(k int) {
				defer wg.Done()
				decision := models.DecisionApprove
				if k%2 == 1 {
					decision = models.DecisionReject
				}
				statuses[k], results[k] = handler.Resume(id, decision, token)
			}(k)
		}
		wg.Wait()

		winners := 0
		var winnerStatus models.LeaveStatus
		for k := 0; k < n; k++ {
			if results[k] == nil {
				winners++
				winnerStatus = statuses[k]
			} else {
				require.ErrorIs(t, results[k], callbacktoken.ErrTokenAlreadyConsumed)
			}
		}
		require.Equal(t, 1, winners)

		rec, _ := store.GetByID(id)
		require.Equal(t, winnerStatus, rec.Status)
		require.Len(t, notifier.outcomeRecs, 1)
	})
}

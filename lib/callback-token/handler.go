package callbacktoken

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"leave-approval-backend/db"
	callbacktokenstore "leave-approval-backend/lib/callback-token/store"
	dbmodels "leave-approval-backend/models/db"

	"github.com/pkg/errors"
)

var (
	ErrTokenNotFound        = errors.New("указанный токен не найден")
	ErrTokenAlreadyConsumed = errors.New("указанный токен уже использован")
)

const tokenBytes = 32

type Provider interface {
	// Issue выпускает одноразовый токен, привязанный к заявке
	Issue(requestID string) (token string, err error)
	// Redeem гасит токен и возвращает номер привязанной заявки.
	// Повторное гашение возвращает ErrTokenAlreadyConsumed.
	Redeem(token string) (requestID string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(callbacktokenstore.NewInstance(db.DB))
}

func NewInstance(store callbacktokenstore.Provider) Provider {
	return &impl{
		store: store,
	}
}

type impl struct {
	store callbacktokenstore.Provider
}

func (i impl) Issue(requestID string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", errors.Wrap(err, "ошибка генерации токена")
	}
	rec := dbmodels.CallbackToken{
		Token:         token,
		RequestID:     requestID,
		DateGenerated: time.Now(),
	}
	err = i.store.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка сохранения токена")
	}
	return token, nil
}

func (i impl) Redeem(token string) (string, error) {
	rec, err := i.store.GetByToken(token)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения токена")
	}
	if rec == nil {
		return "", ErrTokenNotFound
	}
	consumed, err := i.store.Consume(token, time.Now())
	if err != nil {
		return "", errors.Wrap(err, "ошибка гашения токена")
	}
	if !consumed {
		return "", ErrTokenAlreadyConsumed
	}
	return rec.RequestID, nil
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

package dbmodels

import "time"

// CallbackToken одноразовый токен возобновления приостановленной заявки.
// DateUsed == NULL означает, что токен еще не погашен.
type CallbackToken struct {
	Token         string     `gorm:"primaryKey;type:varchar(64)"`
	RequestID     string     `gorm:"type:varchar(64);index"`
	DateGenerated time.Time
	DateUsed      *time.Time
}

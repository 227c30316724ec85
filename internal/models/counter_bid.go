package models

import (
	"time"

	"github.com/google/uuid"
)

// Направление контрпредложения относительно текущего пользователя.
const (
	CounterBidDirectionSent     = "sent"
	CounterBidDirectionReceived = "received"
)

// CounterBid описывает контрпредложение по отклику: направленное предложение
// новой суммы от заказчика исполнителю или наоборот.
type CounterBid struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ProposalID    uuid.UUID `db:"proposal_id" json:"proposal_id"`
	FromUserID    uuid.UUID `db:"from_user_id" json:"from_user_id"`
	ToUserID      uuid.UUID `db:"to_user_id" json:"to_user_id"`
	CounterAmount float64   `db:"counter_amount" json:"counter_amount"`
	Message       *string   `db:"message" json:"message,omitempty"`
	Status        string    `db:"status" json:"status"`
	ExpiresAt     time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`

	// Заполняются при выборках со связанными данными.
	FromUserName *string `db:"from_user_name" json:"from_user_name,omitempty"`
	JobTitle     *string `db:"job_title" json:"job_title,omitempty"`
}

// UserCounterBid дополняет контрпредложение признаками для списка пользователя.
type UserCounterBid struct {
	CounterBid
	Direction string `json:"direction"`
	IsExpired bool   `json:"is_expired"`
}

// IsExpired сообщает, истёк ли срок действия контрпредложения.
func (cb *CounterBid) IsExpired(now time.Time) bool {
	return now.After(cb.ExpiresAt)
}

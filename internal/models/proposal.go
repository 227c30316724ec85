package models

import (
	"time"

	"github.com/google/uuid"
)

// Proposal представляет отклик исполнителя на заказ.
type Proposal struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	JobID               uuid.UUID `db:"job_id" json:"job_id"`
	FreelancerID        uuid.UUID `db:"freelancer_id" json:"freelancer_id"`
	CoverLetter         string    `db:"cover_letter" json:"cover_letter"`
	BidAmount           float64   `db:"bid_amount" json:"bid_amount"`
	Status              string    `db:"status" json:"status"`
	HasCounterBid       bool      `db:"has_counter_bid" json:"has_counter_bid"`
	LatestCounterAmount *float64  `db:"latest_counter_amount" json:"latest_counter_amount,omitempty"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`

	// Заполняются при выборках со связанными данными.
	FreelancerName  *string `db:"freelancer_name" json:"freelancer_name,omitempty"`
	FreelancerEmail *string `db:"freelancer_email" json:"freelancer_email,omitempty"`
	JobTitle        *string `db:"job_title" json:"job_title,omitempty"`
}

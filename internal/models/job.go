package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Job описывает размещённый заказчиком заказ на работу.
type Job struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	ClientID    uuid.UUID      `db:"client_id" json:"client_id"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	Skills      pq.StringArray `db:"skills" json:"skills"`
	Budget      float64        `db:"budget" json:"budget"`
	Status      string         `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`

	// Заполняются при выборках со связанными данными.
	ClientName    *string `db:"client_name" json:"client_name,omitempty"`
	ClientEmail   *string `db:"client_email" json:"client_email,omitempty"`
	ProposalCount *int    `db:"proposal_count" json:"proposal_count,omitempty"`
}

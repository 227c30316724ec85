package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/workhub/workhub-backend/internal/models"
	"github.com/workhub/workhub-backend/internal/pkg/apperror"
)

// ProposalRepository отвечает за отклики и их составные переходы статусов.
// Все составные операции выполняются в одной транзакции с блокировкой строк,
// чтобы параллельные запросы не могли увидеть промежуточное состояние.
type ProposalRepository struct {
	db *sqlx.DB
}

// NewProposalRepository создаёт новый экземпляр.
func NewProposalRepository(db *sqlx.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// Create сохраняет отклик на открытый заказ.
// Заказ блокируется на время проверки, дубль отклика по паре (заказ, исполнитель) запрещён.
func (r *ProposalRepository) Create(ctx context.Context, proposal *models.Proposal) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("proposal repository: begin tx %w", err)
	}
	defer tx.Rollback()

	var jobStatus string
	err = tx.GetContext(ctx, &jobStatus, `SELECT status FROM jobs WHERE id = $1 FOR UPDATE`, proposal.JobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.ErrJobNotFound
		}
		return fmt.Errorf("proposal repository: lock job %w", err)
	}

	// Закрытый заказ для исполнителя неотличим от отсутствующего.
	if jobStatus != models.JobStatusOpen {
		return apperror.New(apperror.ErrCodeNotFound, "заказ не найден или закрыт для откликов")
	}

	var existing int
	err = tx.GetContext(ctx, &existing,
		`SELECT COUNT(*) FROM proposals WHERE job_id = $1 AND freelancer_id = $2`,
		proposal.JobID, proposal.FreelancerID,
	)
	if err != nil {
		return fmt.Errorf("proposal repository: check existing %w", err)
	}
	if existing > 0 {
		return apperror.New(apperror.ErrCodeConflict, "вы уже отправили отклик на этот заказ")
	}

	query := `
		INSERT INTO proposals (job_id, freelancer_id, cover_letter, bid_amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	if err = tx.QueryRowxContext(
		ctx, query,
		proposal.JobID, proposal.FreelancerID, proposal.CoverLetter, proposal.BidAmount, proposal.Status,
	).Scan(&proposal.ID, &proposal.CreatedAt, &proposal.UpdatedAt); err != nil {
		return fmt.Errorf("proposal repository: insert proposal %w", err)
	}

	return tx.Commit()
}

// GetByID возвращает отклик по идентификатору.
func (r *ProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	var proposal models.Proposal
	query := `
		SELECT id, job_id, freelancer_id, cover_letter, bid_amount, status,
		       has_counter_bid, latest_counter_amount, created_at, updated_at
		FROM proposals
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &proposal, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrProposalNotFound
		}
		return nil, fmt.Errorf("proposal repository: get by id %w", err)
	}
	return &proposal, nil
}

// GetByIDWithDetails возвращает отклик с данными исполнителя и заказа.
func (r *ProposalRepository) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	var proposal models.Proposal
	query := `
		SELECT p.id, p.job_id, p.freelancer_id, p.cover_letter, p.bid_amount, p.status,
		       p.has_counter_bid, p.latest_counter_amount, p.created_at, p.updated_at,
		       u.name AS freelancer_name, u.email AS freelancer_email,
		       j.title AS job_title
		FROM proposals p
		JOIN users u ON u.id = p.freelancer_id
		JOIN jobs j ON j.id = p.job_id
		WHERE p.id = $1
	`
	if err := r.db.GetContext(ctx, &proposal, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrProposalNotFound
		}
		return nil, fmt.Errorf("proposal repository: get by id with details %w", err)
	}
	return &proposal, nil
}

// ListByJob возвращает отклики по заказу с данными исполнителей.
func (r *ProposalRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Proposal, error) {
	query := `
		SELECT p.id, p.job_id, p.freelancer_id, p.cover_letter, p.bid_amount, p.status,
		       p.has_counter_bid, p.latest_counter_amount, p.created_at, p.updated_at,
		       u.name AS freelancer_name, u.email AS freelancer_email
		FROM proposals p
		JOIN users u ON u.id = p.freelancer_id
		WHERE p.job_id = $1
		ORDER BY p.created_at DESC
	`
	var proposals []models.Proposal
	if err := r.db.SelectContext(ctx, &proposals, query, jobID); err != nil {
		return nil, fmt.Errorf("proposal repository: list by job %w", err)
	}
	return proposals, nil
}

// ListByFreelancer возвращает отклики исполнителя с заголовками заказов.
func (r *ProposalRepository) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error) {
	query := `
		SELECT p.id, p.job_id, p.freelancer_id, p.cover_letter, p.bid_amount, p.status,
		       p.has_counter_bid, p.latest_counter_amount, p.created_at, p.updated_at,
		       j.title AS job_title
		FROM proposals p
		JOIN jobs j ON j.id = p.job_id
		WHERE p.freelancer_id = $1
		ORDER BY p.created_at DESC
	`
	var proposals []models.Proposal
	if err := r.db.SelectContext(ctx, &proposals, query, freelancerID); err != nil {
		return nil, fmt.Errorf("proposal repository: list by freelancer %w", err)
	}
	return proposals, nil
}

// Accept принимает отклик одной транзакцией:
// отклик становится accepted, конкурирующие отклики по заказу — rejected,
// заказ переходит в in_progress, активные контрпредложения отклика закрываются.
// finalAmount задаётся при принятии через контрпредложение.
func (r *ProposalRepository) Accept(ctx context.Context, proposalID uuid.UUID, finalAmount *float64) (*models.Proposal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("proposal repository: begin tx %w", err)
	}
	defer tx.Rollback()

	proposal, err := lockProposal(ctx, tx, proposalID)
	if err != nil {
		return nil, err
	}

	if !models.CanProposalTransition(proposal.Status, models.ProposalStatusAccepted) {
		return nil, apperror.New(apperror.ErrCodeInvalidState,
			fmt.Sprintf("отклик в статусе %s нельзя принять", proposal.Status))
	}

	if err := lockOpenJob(ctx, tx, proposal.JobID); err != nil {
		return nil, err
	}

	if err := acceptProposalTx(ctx, tx, proposal, finalAmount); err != nil {
		return nil, err
	}

	return proposal, tx.Commit()
}

// Reject отклоняет отклик и закрывает его активные контрпредложения.
// Статус заказа не меняется. Повторный вызов завершается ошибкой состояния.
func (r *ProposalRepository) Reject(ctx context.Context, proposalID uuid.UUID) (*models.Proposal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("proposal repository: begin tx %w", err)
	}
	defer tx.Rollback()

	proposal, err := lockProposal(ctx, tx, proposalID)
	if err != nil {
		return nil, err
	}

	if !models.CanProposalTransition(proposal.Status, models.ProposalStatusRejected) {
		return nil, apperror.New(apperror.ErrCodeInvalidState,
			fmt.Sprintf("отклик в статусе %s нельзя отклонить", proposal.Status))
	}

	if err := tx.GetContext(ctx, &proposal.UpdatedAt, `
		UPDATE proposals SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING updated_at
	`, proposal.ID, models.ProposalStatusRejected); err != nil {
		return nil, fmt.Errorf("proposal repository: reject proposal %w", err)
	}
	proposal.Status = models.ProposalStatusRejected

	if err := closePendingCounterBids(ctx, tx, proposal.ID); err != nil {
		return nil, err
	}

	return proposal, tx.Commit()
}

// lockProposal читает отклик под блокировкой строки.
func lockProposal(ctx context.Context, tx *sqlx.Tx, proposalID uuid.UUID) (*models.Proposal, error) {
	var proposal models.Proposal
	query := `
		SELECT id, job_id, freelancer_id, cover_letter, bid_amount, status,
		       has_counter_bid, latest_counter_amount, created_at, updated_at
		FROM proposals
		WHERE id = $1
		FOR UPDATE
	`
	if err := tx.GetContext(ctx, &proposal, query, proposalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrProposalNotFound
		}
		return nil, fmt.Errorf("proposal repository: lock proposal %w", err)
	}
	return &proposal, nil
}

// lockOpenJob блокирует заказ и проверяет, что он ещё открыт.
// Параллельное принятие второго отклика упрётся в эту проверку после commit первого.
func lockOpenJob(ctx context.Context, tx *sqlx.Tx, jobID uuid.UUID) error {
	var jobStatus string
	if err := tx.GetContext(ctx, &jobStatus, `SELECT status FROM jobs WHERE id = $1 FOR UPDATE`, jobID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.ErrJobNotFound
		}
		return fmt.Errorf("proposal repository: lock job %w", err)
	}
	if jobStatus != models.JobStatusOpen {
		return apperror.New(apperror.ErrCodeInvalidState,
			fmt.Sprintf("по заказу в статусе %s уже нельзя принимать отклики", jobStatus))
	}
	return nil
}

// acceptProposalTx выполняет тело принятия отклика внутри открытой транзакции.
// Вызывающий обязан предварительно заблокировать отклик и заказ.
func acceptProposalTx(ctx context.Context, tx *sqlx.Tx, proposal *models.Proposal, finalAmount *float64) error {
	amount := proposal.BidAmount
	if finalAmount != nil {
		amount = *finalAmount
	}

	if err := tx.GetContext(ctx, &proposal.UpdatedAt, `
		UPDATE proposals SET status = $2, bid_amount = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, proposal.ID, models.ProposalStatusAccepted, amount); err != nil {
		return fmt.Errorf("proposal repository: accept proposal %w", err)
	}
	proposal.Status = models.ProposalStatusAccepted
	proposal.BidAmount = amount

	if _, err := tx.ExecContext(ctx, `
		UPDATE proposals SET status = $2, updated_at = NOW()
		WHERE job_id = $1 AND id != $3 AND status != $2
	`, proposal.JobID, models.ProposalStatusRejected, proposal.ID); err != nil {
		return fmt.Errorf("proposal repository: reject sibling proposals %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE jobs SET status = $2, updated_at = NOW() WHERE id = $1
	`, proposal.JobID, models.JobStatusInProgress); err != nil {
		return fmt.Errorf("proposal repository: update job status %w", err)
	}

	// Закрываются контрпредложения по всем откликам заказа:
	// отклонённые конкуренты тоже не должны остаться с активным торгом.
	if _, err := tx.ExecContext(ctx, `
		UPDATE counter_bids SET status = $2, updated_at = NOW()
		WHERE status = $3
		  AND proposal_id IN (SELECT id FROM proposals WHERE job_id = $1)
	`, proposal.JobID, models.CounterBidStatusClosed, models.CounterBidStatusPending); err != nil {
		return fmt.Errorf("proposal repository: close job counter bids %w", err)
	}
	return nil
}

// closePendingCounterBids закрывает все активные контрпредложения отклика.
func closePendingCounterBids(ctx context.Context, tx *sqlx.Tx, proposalID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE counter_bids SET status = $2, updated_at = NOW()
		WHERE proposal_id = $1 AND status = $3
	`, proposalID, models.CounterBidStatusClosed, models.CounterBidStatusPending); err != nil {
		return fmt.Errorf("proposal repository: close pending counter bids %w", err)
	}
	return nil
}

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

// CounterBidRepository отвечает за контрпредложения и их составные переходы.
type CounterBidRepository struct {
	db *sqlx.DB
}

// NewCounterBidRepository создаёт новый экземпляр.
func NewCounterBidRepository(db *sqlx.DB) *CounterBidRepository {
	return &CounterBidRepository{db: db}
}

// Create создаёт контрпредложение по отклику в статусе pending.
// Прочие контрпредложения отклика помечаются superseded, отклик переходит в countered.
func (r *CounterBidRepository) Create(ctx context.Context, cb *models.CounterBid) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("counter bid repository: begin tx %w", err)
	}
	defer tx.Rollback()

	proposal, err := lockProposal(ctx, tx, cb.ProposalID)
	if err != nil {
		return err
	}

	if proposal.Status != models.ProposalStatusPending {
		return apperror.New(apperror.ErrCodeInvalidState,
			fmt.Sprintf("контрпредложение можно создать только для отклика в ожидании, текущий статус %s", proposal.Status))
	}

	if err = supersedeOtherCounterBids(ctx, tx, cb.ProposalID, uuid.Nil); err != nil {
		return err
	}

	if err = insertCounterBid(ctx, tx, cb); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE proposals
		SET status = $2, has_counter_bid = TRUE, latest_counter_amount = $3, updated_at = NOW()
		WHERE id = $1
	`, cb.ProposalID, models.ProposalStatusCountered, cb.CounterAmount); err != nil {
		return fmt.Errorf("counter bid repository: mark proposal countered %w", err)
	}

	return tx.Commit()
}

// GetByID возвращает контрпредложение по идентификатору.
func (r *CounterBidRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CounterBid, error) {
	var cb models.CounterBid
	query := `
		SELECT id, proposal_id, from_user_id, to_user_id, counter_amount, message,
		       status, expires_at, created_at, updated_at
		FROM counter_bids
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &cb, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrCounterBidNotFound
		}
		return nil, fmt.Errorf("counter bid repository: get by id %w", err)
	}
	return &cb, nil
}

// Accept принимает контрпредложение одной транзакцией:
// контрпредложение становится accepted, затем выполняется полное принятие отклика
// с итоговой суммой контрпредложения (конкуренты отклоняются, заказ — in_progress).
func (r *CounterBidRepository) Accept(ctx context.Context, counterBidID uuid.UUID) (*models.CounterBid, *models.Proposal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("counter bid repository: begin tx %w", err)
	}
	defer tx.Rollback()

	cb, err := lockPendingCounterBid(ctx, tx, counterBidID)
	if err != nil {
		return nil, nil, err
	}

	proposal, err := lockProposal(ctx, tx, cb.ProposalID)
	if err != nil {
		return nil, nil, err
	}

	if !models.CanProposalTransition(proposal.Status, models.ProposalStatusAccepted) {
		return nil, nil, apperror.New(apperror.ErrCodeInvalidState,
			fmt.Sprintf("отклик в статусе %s нельзя принять", proposal.Status))
	}

	if err = lockOpenJob(ctx, tx, proposal.JobID); err != nil {
		return nil, nil, err
	}

	// Контрпредложение выходит из pending до общего закрытия активных
	// контрпредложений, иначе попадёт под closed.
	if err = updateCounterBidStatus(ctx, tx, cb, models.CounterBidStatusAccepted); err != nil {
		return nil, nil, err
	}

	if err = acceptProposalTx(ctx, tx, proposal, &cb.CounterAmount); err != nil {
		return nil, nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, err
	}
	return cb, proposal, nil
}

// Reject отклоняет контрпредложение и возвращает отклик в ожидание:
// has_counter_bid сбрасывается, последняя контрсумма очищается.
func (r *CounterBidRepository) Reject(ctx context.Context, counterBidID uuid.UUID) (*models.CounterBid, *models.Proposal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("counter bid repository: begin tx %w", err)
	}
	defer tx.Rollback()

	cb, err := lockPendingCounterBid(ctx, tx, counterBidID)
	if err != nil {
		return nil, nil, err
	}

	proposal, err := lockProposal(ctx, tx, cb.ProposalID)
	if err != nil {
		return nil, nil, err
	}

	if err = updateCounterBidStatus(ctx, tx, cb, models.CounterBidStatusRejected); err != nil {
		return nil, nil, err
	}

	if err = tx.GetContext(ctx, &proposal.UpdatedAt, `
		UPDATE proposals
		SET status = $2, has_counter_bid = FALSE, latest_counter_amount = NULL, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, proposal.ID, models.ProposalStatusPending); err != nil {
		return nil, nil, fmt.Errorf("counter bid repository: reset proposal %w", err)
	}
	proposal.Status = models.ProposalStatusPending
	proposal.HasCounterBid = false
	proposal.LatestCounterAmount = nil

	if err = tx.Commit(); err != nil {
		return nil, nil, err
	}
	return cb, proposal, nil
}

// Counter отвечает на контрпредложение встречным: текущее становится countered,
// создаётся новое в обратном направлении, активным остаётся только оно.
func (r *CounterBidRepository) Counter(ctx context.Context, counterBidID uuid.UUID, newCB *models.CounterBid) (*models.CounterBid, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("counter bid repository: begin tx %w", err)
	}
	defer tx.Rollback()

	cb, err := lockPendingCounterBid(ctx, tx, counterBidID)
	if err != nil {
		return nil, err
	}

	if _, err = lockProposal(ctx, tx, cb.ProposalID); err != nil {
		return nil, err
	}

	if err = updateCounterBidStatus(ctx, tx, cb, models.CounterBidStatusCountered); err != nil {
		return nil, err
	}

	if err = supersedeOtherCounterBids(ctx, tx, cb.ProposalID, cb.ID); err != nil {
		return nil, err
	}

	// Встречное предложение меняет направление на противоположное.
	newCB.ProposalID = cb.ProposalID
	newCB.FromUserID = cb.ToUserID
	newCB.ToUserID = cb.FromUserID
	newCB.Status = models.CounterBidStatusPending

	if err = insertCounterBid(ctx, tx, newCB); err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE proposals
		SET status = $2, has_counter_bid = TRUE, latest_counter_amount = $3, updated_at = NOW()
		WHERE id = $1
	`, cb.ProposalID, models.ProposalStatusCountered, newCB.CounterAmount); err != nil {
		return nil, fmt.Errorf("counter bid repository: update latest counter amount %w", err)
	}

	return newCB, tx.Commit()
}

// ListByProposal возвращает историю контрпредложений отклика.
func (r *CounterBidRepository) ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]models.CounterBid, error) {
	query := `
		SELECT cb.id, cb.proposal_id, cb.from_user_id, cb.to_user_id, cb.counter_amount,
		       cb.message, cb.status, cb.expires_at, cb.created_at, cb.updated_at,
		       u.name AS from_user_name
		FROM counter_bids cb
		JOIN users u ON u.id = cb.from_user_id
		WHERE cb.proposal_id = $1
		ORDER BY cb.created_at DESC
	`
	var cbs []models.CounterBid
	if err := r.db.SelectContext(ctx, &cbs, query, proposalID); err != nil {
		return nil, fmt.Errorf("counter bid repository: list by proposal %w", err)
	}
	return cbs, nil
}

// ListByUser возвращает контрпредложения, где пользователь отправитель или получатель.
func (r *CounterBidRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CounterBid, error) {
	query := `
		SELECT cb.id, cb.proposal_id, cb.from_user_id, cb.to_user_id, cb.counter_amount,
		       cb.message, cb.status, cb.expires_at, cb.created_at, cb.updated_at,
		       u.name AS from_user_name,
		       j.title AS job_title
		FROM counter_bids cb
		JOIN users u ON u.id = cb.from_user_id
		JOIN proposals p ON p.id = cb.proposal_id
		JOIN jobs j ON j.id = p.job_id
		WHERE cb.from_user_id = $1 OR cb.to_user_id = $1
		ORDER BY cb.created_at DESC
	`
	var cbs []models.CounterBid
	if err := r.db.SelectContext(ctx, &cbs, query, userID); err != nil {
		return nil, fmt.Errorf("counter bid repository: list by user %w", err)
	}
	return cbs, nil
}

// lockPendingCounterBid читает контрпредложение под блокировкой и проверяет, что оно активно.
func lockPendingCounterBid(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.CounterBid, error) {
	var cb models.CounterBid
	query := `
		SELECT id, proposal_id, from_user_id, to_user_id, counter_amount, message,
		       status, expires_at, created_at, updated_at
		FROM counter_bids
		WHERE id = $1
		FOR UPDATE
	`
	if err := tx.GetContext(ctx, &cb, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrCounterBidNotFound
		}
		return nil, fmt.Errorf("counter bid repository: lock counter bid %w", err)
	}

	if cb.Status != models.CounterBidStatusPending {
		return nil, apperror.New(apperror.ErrCodeInvalidState,
			fmt.Sprintf("контрпредложение уже обработано, статус %s", cb.Status))
	}
	return &cb, nil
}

// insertCounterBid вставляет контрпредложение внутри открытой транзакции.
func insertCounterBid(ctx context.Context, tx *sqlx.Tx, cb *models.CounterBid) error {
	query := `
		INSERT INTO counter_bids (proposal_id, from_user_id, to_user_id, counter_amount, message, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	if err := tx.QueryRowxContext(
		ctx, query,
		cb.ProposalID, cb.FromUserID, cb.ToUserID, cb.CounterAmount, cb.Message, cb.Status, cb.ExpiresAt,
	).Scan(&cb.ID, &cb.CreatedAt, &cb.UpdatedAt); err != nil {
		return fmt.Errorf("counter bid repository: insert counter bid %w", err)
	}
	return nil
}

// supersedeOtherCounterBids помечает прочие активные контрпредложения отклика как superseded.
// Активным может оставаться не более одного контрпредложения на отклик.
func supersedeOtherCounterBids(ctx context.Context, tx *sqlx.Tx, proposalID uuid.UUID, exceptID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE counter_bids SET status = $2, updated_at = NOW()
		WHERE proposal_id = $1 AND id != $3 AND status = $4
	`, proposalID, models.CounterBidStatusSuperseded, exceptID, models.CounterBidStatusPending); err != nil {
		return fmt.Errorf("counter bid repository: supersede counter bids %w", err)
	}
	return nil
}

// updateCounterBidStatus переводит контрпредложение в терминальный статус.
func updateCounterBidStatus(ctx context.Context, tx *sqlx.Tx, cb *models.CounterBid, status string) error {
	if !models.CanCounterBidTransition(cb.Status, status) {
		return apperror.New(apperror.ErrCodeInvalidState,
			fmt.Sprintf("недопустимый переход контрпредложения %s -> %s", cb.Status, status))
	}

	if err := tx.GetContext(ctx, &cb.UpdatedAt, `
		UPDATE counter_bids SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING updated_at
	`, cb.ID, status); err != nil {
		return fmt.Errorf("counter bid repository: update status %w", err)
	}
	cb.Status = status
	return nil
}

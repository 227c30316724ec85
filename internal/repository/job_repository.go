package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/workhub/workhub-backend/internal/models"
	"github.com/workhub/workhub-backend/internal/pkg/apperror"
)

// JobRepository отвечает за работу с заказами.
type JobRepository struct {
	db *sqlx.DB
}

// NewJobRepository создаёт новый экземпляр.
func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// JobFilterParams задаёт фильтры списка заказов.
type JobFilterParams struct {
	Search    string
	Skills    []string
	MinBudget *float64
	MaxBudget *float64
}

// Create сохраняет новый заказ.
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (client_id, title, description, skills, budget, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		job.ClientID, job.Title, job.Description, pq.Array(job.Skills), job.Budget, job.Status,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt); err != nil {
		return fmt.Errorf("job repository: insert job %w", err)
	}

	return nil
}

// GetByID возвращает заказ по идентификатору.
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	query := `
		SELECT id, client_id, title, description, skills, budget, status, created_at, updated_at
		FROM jobs
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrJobNotFound
		}
		return nil, fmt.Errorf("job repository: get by id %w", err)
	}
	return &job, nil
}

// GetByIDWithClient возвращает заказ вместе с данными заказчика и числом откликов.
func (r *JobRepository) GetByIDWithClient(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	query := `
		SELECT j.id, j.client_id, j.title, j.description, j.skills, j.budget, j.status,
		       j.created_at, j.updated_at,
		       u.name AS client_name, u.email AS client_email,
		       (SELECT COUNT(*)::INTEGER FROM proposals WHERE job_id = j.id) AS proposal_count
		FROM jobs j
		JOIN users u ON u.id = j.client_id
		WHERE j.id = $1
	`
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrJobNotFound
		}
		return nil, fmt.Errorf("job repository: get by id with client %w", err)
	}
	return &job, nil
}

// List возвращает открытые заказы с фильтрами поиска.
func (r *JobRepository) List(ctx context.Context, params JobFilterParams) ([]models.Job, error) {
	query := `
		SELECT j.id, j.client_id, j.title, j.description, j.skills, j.budget, j.status,
		       j.created_at, j.updated_at,
		       u.name AS client_name, u.email AS client_email,
		       (SELECT COUNT(*)::INTEGER FROM proposals WHERE job_id = j.id) AS proposal_count
		FROM jobs j
		JOIN users u ON u.id = j.client_id
		WHERE j.status = 'open'
	`
	args := []interface{}{}
	argn := 0

	if params.Search != "" {
		argn++
		query += fmt.Sprintf(" AND (j.title ILIKE $%d OR j.description ILIKE $%d)", argn, argn)
		args = append(args, "%"+params.Search+"%")
	}

	if len(params.Skills) > 0 {
		argn++
		// Пересечение массивов: заказ подходит, если содержит хотя бы один из навыков.
		query += fmt.Sprintf(" AND j.skills && $%d", argn)
		args = append(args, pq.Array(params.Skills))
	}

	if params.MinBudget != nil {
		argn++
		query += fmt.Sprintf(" AND j.budget >= $%d", argn)
		args = append(args, *params.MinBudget)
	}

	if params.MaxBudget != nil {
		argn++
		query += fmt.Sprintf(" AND j.budget <= $%d", argn)
		args = append(args, *params.MaxBudget)
	}

	query += " ORDER BY j.created_at DESC"

	var jobs []models.Job
	if err := r.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, fmt.Errorf("job repository: list %w", err)
	}
	return jobs, nil
}

// ListByClient возвращает заказы конкретного заказчика.
func (r *JobRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Job, error) {
	query := `
		SELECT j.id, j.client_id, j.title, j.description, j.skills, j.budget, j.status,
		       j.created_at, j.updated_at,
		       (SELECT COUNT(*)::INTEGER FROM proposals WHERE job_id = j.id) AS proposal_count
		FROM jobs j
		WHERE j.client_id = $1
		ORDER BY j.created_at DESC
	`
	var jobs []models.Job
	if err := r.db.SelectContext(ctx, &jobs, query, clientID); err != nil {
		return nil, fmt.Errorf("job repository: list by client %w", err)
	}
	return jobs, nil
}

// Update обновляет редактируемые поля заказа.
func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE jobs
		SET title = $2, description = $3, skills = $4, budget = $5, status = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		job.ID, job.Title, job.Description, pq.Array(job.Skills), job.Budget, job.Status,
	).Scan(&job.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.ErrJobNotFound
		}
		return fmt.Errorf("job repository: update %w", err)
	}
	return nil
}

// Delete удаляет заказ заказчика.
func (r *JobRepository) Delete(ctx context.Context, id uuid.UUID, clientID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1 AND client_id = $2`, id, clientID)
	if err != nil {
		return fmt.Errorf("job repository: delete %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("job repository: delete rows affected %w", err)
	}
	if affected == 0 {
		return apperror.ErrJobNotFound
	}
	return nil
}

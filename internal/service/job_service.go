package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/workhub/workhub-backend/internal/models"
	"github.com/workhub/workhub-backend/internal/pkg/apperror"
	"github.com/workhub/workhub-backend/internal/repository"
	"github.com/workhub/workhub-backend/internal/validation"
)

// JobStore описывает зависимости JobService от слоя хранилища.
type JobStore interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	GetByIDWithClient(ctx context.Context, id uuid.UUID) (*models.Job, error)
	List(ctx context.Context, params repository.JobFilterParams) ([]models.Job, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id uuid.UUID, clientID uuid.UUID) error
}

// UserReader возвращает свежие данные пользователя для проверок ролей.
// Роль читается из базы, а не из токена: токен может быть устаревшим.
type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// JobService инкапсулирует бизнес-логику работы с заказами.
type JobService struct {
	jobs  JobStore
	users UserReader
}

// CreateJobInput содержит данные нового заказа.
type CreateJobInput struct {
	ClientID    uuid.UUID
	Title       string
	Description string
	Skills      []string
	Budget      float64
}

// UpdateJobInput содержит изменяемые поля заказа.
type UpdateJobInput struct {
	JobID       uuid.UUID
	ClientID    uuid.UUID
	Title       string
	Description string
	Skills      []string
	Budget      float64
	Status      string
}

// NewJobService создаёт сервис заказов.
func NewJobService(jobs JobStore, users UserReader) *JobService {
	return &JobService{jobs: jobs, users: users}
}

// CreateJob размещает новый заказ. Разрешено только заказчикам.
func (s *JobService) CreateJob(ctx context.Context, in CreateJobInput) (*models.Job, error) {
	actor, err := s.users.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleClient {
		return nil, apperror.New(apperror.ErrCodeForbidden, "только заказчики могут размещать заказы")
	}

	if err := validation.ValidateJobTitle(in.Title); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateJobDescription(in.Description); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateSkills(in.Skills); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateAmount("бюджет", in.Budget); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	job := &models.Job{
		ClientID:    in.ClientID,
		Title:       in.Title,
		Description: in.Description,
		Skills:      in.Skills,
		Budget:      in.Budget,
		Status:      models.JobStatusOpen,
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetJob возвращает заказ со связанными данными.
func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	return s.jobs.GetByIDWithClient(ctx, id)
}

// ListJobs возвращает открытые заказы с фильтрами.
func (s *JobService) ListJobs(ctx context.Context, params repository.JobFilterParams) ([]models.Job, error) {
	return s.jobs.List(ctx, params)
}

// ListMyJobs возвращает заказы текущего заказчика.
func (s *JobService) ListMyJobs(ctx context.Context, clientID uuid.UUID) ([]models.Job, error) {
	return s.jobs.ListByClient(ctx, clientID)
}

// UpdateJob обновляет заказ. Разрешено только владельцу.
func (s *JobService) UpdateJob(ctx context.Context, in UpdateJobInput) (*models.Job, error) {
	job, err := s.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		return nil, err
	}
	if job.ClientID != in.ClientID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "нет прав изменять чужой заказ")
	}

	if err := validation.ValidateJobTitle(in.Title); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateJobDescription(in.Description); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateSkills(in.Skills); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateAmount("бюджет", in.Budget); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	if in.Status != "" && in.Status != job.Status {
		if _, ok := models.ValidJobStatuses[in.Status]; !ok {
			return nil, apperror.New(apperror.ErrCodeValidation, "некорректный статус заказа")
		}
		if !models.CanJobTransition(job.Status, in.Status) {
			return nil, apperror.New(apperror.ErrCodeInvalidState, "недопустимый переход статуса заказа")
		}
		job.Status = in.Status
	}

	job.Title = in.Title
	job.Description = in.Description
	job.Skills = in.Skills
	job.Budget = in.Budget

	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// DeleteJob удаляет заказ. Разрешено только владельцу.
func (s *JobService) DeleteJob(ctx context.Context, jobID uuid.UUID, clientID uuid.UUID) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.ClientID != clientID {
		return apperror.New(apperror.ErrCodeForbidden, "нет прав удалять чужой заказ")
	}

	return s.jobs.Delete(ctx, jobID, clientID)
}

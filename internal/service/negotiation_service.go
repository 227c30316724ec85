package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/workhub/workhub-backend/internal/logger"
	"github.com/workhub/workhub-backend/internal/models"
	"github.com/workhub/workhub-backend/internal/pkg/apperror"
	"github.com/workhub/workhub-backend/internal/validation"
)

// Действия над откликом и контрпредложением.
const (
	CounterBidActionAccept  = "accept"
	CounterBidActionReject  = "reject"
	CounterBidActionCounter = "counter"
)

// ProposalStore описывает зависимости сервиса от хранилища откликов.
type ProposalStore interface {
	Create(ctx context.Context, proposal *models.Proposal) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Proposal, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error)
	Accept(ctx context.Context, proposalID uuid.UUID, finalAmount *float64) (*models.Proposal, error)
	Reject(ctx context.Context, proposalID uuid.UUID) (*models.Proposal, error)
}

// CounterBidStore описывает зависимости сервиса от хранилища контрпредложений.
type CounterBidStore interface {
	Create(ctx context.Context, cb *models.CounterBid) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CounterBid, error)
	Accept(ctx context.Context, counterBidID uuid.UUID) (*models.CounterBid, *models.Proposal, error)
	Reject(ctx context.Context, counterBidID uuid.UUID) (*models.CounterBid, *models.Proposal, error)
	Counter(ctx context.Context, counterBidID uuid.UUID, newCB *models.CounterBid) (*models.CounterBid, error)
	ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]models.CounterBid, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CounterBid, error)
}

// JobReader возвращает свежие данные заказа для проверок прав.
type JobReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
}

// WSNotifier отправляет событие пользователю по WebSocket.
type WSNotifier interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// NegotiationService выполняет операции переговоров по откликам:
// подача, принятие, отклонение и обмен контрпредложениями.
// Все проверки прав выполняются по свежепрочитанному состоянию сущностей,
// составные переходы состояний делегируются транзакциям репозиториев.
type NegotiationService struct {
	proposals     ProposalStore
	counterBids   CounterBidStore
	jobs          JobReader
	users         UserReader
	hub           WSNotifier
	counterBidTTL time.Duration
}

// SubmitProposalInput содержит данные нового отклика.
type SubmitProposalInput struct {
	JobID        uuid.UUID
	FreelancerID uuid.UUID
	CoverLetter  string
	BidAmount    float64
}

// CreateCounterBidInput содержит данные нового контрпредложения.
type CreateCounterBidInput struct {
	ProposalID    uuid.UUID
	FromUserID    uuid.UUID
	CounterAmount float64
	Message       *string
}

// RespondToCounterBidInput содержит ответ на контрпредложение.
type RespondToCounterBidInput struct {
	CounterBidID     uuid.UUID
	ActorID          uuid.UUID
	Action           string
	NewCounterAmount *float64
	Message          *string
}

// CounterBidResponse описывает итог ответа на контрпредложение.
type CounterBidResponse struct {
	Action     string             `json:"action"`
	CounterBid *models.CounterBid `json:"counter_bid"`
	Proposal   *models.Proposal   `json:"proposal,omitempty"`
}

// NewNegotiationService создаёт сервис переговоров.
func NewNegotiationService(
	proposals ProposalStore,
	counterBids CounterBidStore,
	jobs JobReader,
	users UserReader,
	counterBidTTL time.Duration,
) *NegotiationService {
	return &NegotiationService{
		proposals:     proposals,
		counterBids:   counterBids,
		jobs:          jobs,
		users:         users,
		counterBidTTL: counterBidTTL,
	}
}

// SetHub подключает отправку WebSocket уведомлений.
func (s *NegotiationService) SetHub(hub WSNotifier) {
	s.hub = hub
}

// SubmitProposal создаёт отклик исполнителя на открытый заказ.
func (s *NegotiationService) SubmitProposal(ctx context.Context, in SubmitProposalInput) (*models.Proposal, error) {
	actor, err := s.users.GetByID(ctx, in.FreelancerID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleFreelancer {
		return nil, apperror.New(apperror.ErrCodeForbidden, "только исполнители могут отправлять отклики")
	}

	if err := validation.ValidateCoverLetter(in.CoverLetter); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateAmount("сумма отклика", in.BidAmount); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	job, err := s.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		return nil, err
	}
	if job.ClientID == in.FreelancerID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "нельзя откликнуться на свой заказ")
	}

	proposal := &models.Proposal{
		JobID:        in.JobID,
		FreelancerID: in.FreelancerID,
		CoverLetter:  in.CoverLetter,
		BidAmount:    in.BidAmount,
		Status:       models.ProposalStatusPending,
	}

	// Проверки "заказ открыт" и "отклик не дублируется" выполняются в транзакции.
	if err := s.proposals.Create(ctx, proposal); err != nil {
		return nil, err
	}

	s.notify(job.ClientID, "proposals.new", map[string]any{
		"job_id":   job.ID,
		"proposal": proposal,
	})

	return proposal, nil
}

// UpdateProposalStatus принимает или отклоняет отклик от имени владельца заказа.
func (s *NegotiationService) UpdateProposalStatus(ctx context.Context, proposalID, actorID uuid.UUID, status string) (*models.Proposal, error) {
	if status != models.ProposalStatusAccepted && status != models.ProposalStatusRejected {
		return nil, apperror.New(apperror.ErrCodeValidation, "статус должен быть accepted или rejected")
	}

	proposal, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, proposal.JobID)
	if err != nil {
		return nil, err
	}
	if job.ClientID != actorID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "нет прав изменять статус отклика по чужому заказу")
	}

	var updated *models.Proposal
	if status == models.ProposalStatusAccepted {
		updated, err = s.proposals.Accept(ctx, proposalID, nil)
	} else {
		updated, err = s.proposals.Reject(ctx, proposalID)
	}
	if err != nil {
		return nil, err
	}

	s.notify(proposal.FreelancerID, "proposals.status", map[string]any{
		"job_id":   job.ID,
		"proposal": updated,
	})

	return updated, nil
}

// ListJobProposals возвращает отклики по заказу. Доступно только владельцу заказа.
func (s *NegotiationService) ListJobProposals(ctx context.Context, jobID, actorID uuid.UUID) ([]models.Proposal, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.ClientID != actorID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "нет прав просматривать отклики по чужому заказу")
	}

	return s.proposals.ListByJob(ctx, jobID)
}

// ListMyProposals возвращает отклики текущего исполнителя.
func (s *NegotiationService) ListMyProposals(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error) {
	return s.proposals.ListByFreelancer(ctx, freelancerID)
}

// CreateCounterBid создаёт контрпредложение заказчика по отклику в ожидании.
func (s *NegotiationService) CreateCounterBid(ctx context.Context, in CreateCounterBidInput) (*models.CounterBid, error) {
	if err := validation.ValidateAmount("контрсумма", in.CounterAmount); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateCounterBidMessage(in.Message); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	proposal, err := s.proposals.GetByID(ctx, in.ProposalID)
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, proposal.JobID)
	if err != nil {
		return nil, err
	}
	if job.ClientID != in.FromUserID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "контрпредложение может создать только владелец заказа")
	}

	cb := &models.CounterBid{
		ProposalID:    in.ProposalID,
		FromUserID:    in.FromUserID,
		ToUserID:      proposal.FreelancerID,
		CounterAmount: in.CounterAmount,
		Message:       in.Message,
		Status:        models.CounterBidStatusPending,
		ExpiresAt:     time.Now().Add(s.counterBidTTL),
	}

	if err := s.counterBids.Create(ctx, cb); err != nil {
		return nil, err
	}

	s.notify(cb.ToUserID, "counter_bids.new", map[string]any{
		"job_id":      job.ID,
		"counter_bid": cb,
	})

	return cb, nil
}

// RespondToCounterBid обрабатывает ответ получателя контрпредложения:
// принять, отклонить или предложить встречную сумму.
func (s *NegotiationService) RespondToCounterBid(ctx context.Context, in RespondToCounterBidInput) (*CounterBidResponse, error) {
	cb, err := s.counterBids.GetByID(ctx, in.CounterBidID)
	if err != nil {
		return nil, err
	}
	if cb.ToUserID != in.ActorID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "отвечать на контрпредложение может только его получатель")
	}
	if cb.Status != models.CounterBidStatusPending {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "контрпредложение уже обработано")
	}

	resp := &CounterBidResponse{Action: in.Action}

	switch in.Action {
	case CounterBidActionAccept:
		resp.CounterBid, resp.Proposal, err = s.counterBids.Accept(ctx, in.CounterBidID)
	case CounterBidActionReject:
		resp.CounterBid, resp.Proposal, err = s.counterBids.Reject(ctx, in.CounterBidID)
	case CounterBidActionCounter:
		if in.NewCounterAmount == nil {
			return nil, apperror.New(apperror.ErrCodeValidation, "для встречного предложения требуется новая сумма")
		}
		if err := validation.ValidateAmount("контрсумма", *in.NewCounterAmount); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		if err := validation.ValidateCounterBidMessage(in.Message); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}

		newCB := &models.CounterBid{
			CounterAmount: *in.NewCounterAmount,
			Message:       in.Message,
			ExpiresAt:     time.Now().Add(s.counterBidTTL),
		}
		resp.CounterBid, err = s.counterBids.Counter(ctx, in.CounterBidID, newCB)
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "действие должно быть accept, reject или counter")
	}
	if err != nil {
		return nil, err
	}

	s.notify(cb.FromUserID, "counter_bids.response", map[string]any{
		"counter_bid_id": cb.ID,
		"action":         in.Action,
	})

	return resp, nil
}

// ListCounterBids возвращает историю контрпредложений отклика.
// Доступно исполнителю отклика и владельцу заказа.
func (s *NegotiationService) ListCounterBids(ctx context.Context, proposalID, actorID uuid.UUID) ([]models.CounterBid, error) {
	proposal, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, proposal.JobID)
	if err != nil {
		return nil, err
	}
	if actorID != proposal.FreelancerID && actorID != job.ClientID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "нет прав просматривать контрпредложения этого отклика")
	}

	return s.counterBids.ListByProposal(ctx, proposalID)
}

// ListUserCounterBids возвращает контрпредложения пользователя
// с направлением и признаком истечения срока.
func (s *NegotiationService) ListUserCounterBids(ctx context.Context, userID uuid.UUID) ([]models.UserCounterBid, error) {
	cbs, err := s.counterBids.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := make([]models.UserCounterBid, 0, len(cbs))
	for _, cb := range cbs {
		direction := models.CounterBidDirectionReceived
		if cb.FromUserID == userID {
			direction = models.CounterBidDirectionSent
		}
		result = append(result, models.UserCounterBid{
			CounterBid: cb,
			Direction:  direction,
			IsExpired:  cb.IsExpired(now),
		})
	}
	return result, nil
}

// notify отправляет WebSocket уведомление, если хаб подключён.
func (s *NegotiationService) notify(userID uuid.UUID, event string, data map[string]any) {
	if s.hub == nil {
		return
	}
	if err := s.hub.BroadcastToUser(userID, event, data); err != nil {
		logger.WithComponent("negotiation").WithError(err).Warn("не удалось отправить уведомление")
	}
}

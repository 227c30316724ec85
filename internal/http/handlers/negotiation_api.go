package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/workhub/workhub-backend/internal/models"
	"github.com/workhub/workhub-backend/internal/service"
)

// NegotiationService описывает операции движка переговоров,
// используемые HTTP слоем. Реализуется service.NegotiationService.
type NegotiationService interface {
	SubmitProposal(ctx context.Context, in service.SubmitProposalInput) (*models.Proposal, error)
	UpdateProposalStatus(ctx context.Context, proposalID, actorID uuid.UUID, status string) (*models.Proposal, error)
	ListJobProposals(ctx context.Context, jobID, actorID uuid.UUID) ([]models.Proposal, error)
	ListMyProposals(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error)
	CreateCounterBid(ctx context.Context, in service.CreateCounterBidInput) (*models.CounterBid, error)
	RespondToCounterBid(ctx context.Context, in service.RespondToCounterBidInput) (*service.CounterBidResponse, error)
	ListCounterBids(ctx context.Context, proposalID, actorID uuid.UUID) ([]models.CounterBid, error)
	ListUserCounterBids(ctx context.Context, userID uuid.UUID) ([]models.UserCounterBid, error)
}

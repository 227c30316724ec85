package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/workhub/workhub-backend/internal/dto"
	"github.com/workhub/workhub-backend/internal/service"
)

// CounterBidHandler предоставляет HTTP слой для контрпредложений.
type CounterBidHandler struct {
	negotiations NegotiationService
}

// NewCounterBidHandler создаёт хэндлер.
func NewCounterBidHandler(negotiations NegotiationService) *CounterBidHandler {
	return &CounterBidHandler{negotiations: negotiations}
}

// Create обрабатывает POST /api/proposals/counter-bids —
// контрпредложение заказчика по отклику.
func (h *CounterBidHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req dto.CreateCounterBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proposalID, err := uuid.Parse(req.ProposalID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный идентификатор отклика"})
		return
	}

	cb, err := h.negotiations.CreateCounterBid(c.Request.Context(), service.CreateCounterBidInput{
		ProposalID:    proposalID,
		FromUserID:    userID,
		CounterAmount: *req.CounterAmount,
		Message:       req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CounterBidCreatedResponse{
		Message:    "контрпредложение отправлено",
		CounterBid: cb,
	})
}

// Respond обрабатывает PUT /api/proposals/counter-bids/:counterBidId —
// ответ получателя: accept, reject или counter.
func (h *CounterBidHandler) Respond(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	counterBidID, err := uuid.Parse(c.Param("counterBidId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный идентификатор контрпредложения"})
		return
	}

	var req dto.RespondCounterBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.negotiations.RespondToCounterBid(c.Request.Context(), service.RespondToCounterBidInput{
		CounterBidID:     counterBidID,
		ActorID:          userID,
		Action:           req.Action,
		NewCounterAmount: req.NewCounterAmount,
		Message:          req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CounterBidActionResponse{
		Message:    "ответ на контрпредложение обработан",
		Action:     result.Action,
		CounterBid: result.CounterBid,
		Proposal:   result.Proposal,
	})
}

// ListByProposal обрабатывает GET /api/proposals/:proposalId/counter-bids —
// история контрпредложений отклика.
func (h *CounterBidHandler) ListByProposal(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	proposalID, err := uuid.Parse(c.Param("proposalId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный идентификатор отклика"})
		return
	}

	cbs, err := h.negotiations.ListCounterBids(c.Request.Context(), proposalID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cbs)
}

// ListMine обрабатывает GET /api/proposals/counter-bids/user —
// контрпредложения текущего пользователя с направлением и признаком истечения.
func (h *CounterBidHandler) ListMine(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	cbs, err := h.negotiations.ListUserCounterBids(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cbs)
}

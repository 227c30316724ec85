package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/workhub/workhub-backend/internal/dto"
	"github.com/workhub/workhub-backend/internal/service"
)

// ProposalHandler предоставляет HTTP слой для откликов на заказы.
type ProposalHandler struct {
	negotiations NegotiationService
}

// NewProposalHandler создаёт хэндлер.
func NewProposalHandler(negotiations NegotiationService) *ProposalHandler {
	return &ProposalHandler{negotiations: negotiations}
}

// Create обрабатывает POST /api/proposals — отклик исполнителя на заказ.
func (h *ProposalHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req dto.CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный идентификатор заказа"})
		return
	}

	proposal, err := h.negotiations.SubmitProposal(c.Request.Context(), service.SubmitProposalInput{
		JobID:        jobID,
		FreelancerID: userID,
		CoverLetter:  req.CoverLetter,
		BidAmount:    *req.BidAmount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, proposal)
}

// ListByJob обрабатывает GET /api/proposals/job/:jobId — отклики по заказу.
func (h *ProposalHandler) ListByJob(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	jobID, err := uuid.Parse(c.Param("jobId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный идентификатор заказа"})
		return
	}

	proposals, err := h.negotiations.ListJobProposals(c.Request.Context(), jobID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposals)
}

// ListMy обрабатывает GET /api/proposals/my — отклики текущего исполнителя.
func (h *ProposalHandler) ListMy(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	proposals, err := h.negotiations.ListMyProposals(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposals)
}

// UpdateStatus обрабатывает PUT /api/proposals/:proposalId —
// принятие или отклонение отклика владельцем заказа.
func (h *ProposalHandler) UpdateStatus(c *gin.Context) {
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

	var req dto.UpdateProposalStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proposal, err := h.negotiations.UpdateProposalStatus(c.Request.Context(), proposalID, userID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProposalStatusResponse{
		Message:  "статус отклика обновлён",
		Proposal: proposal,
	})
}

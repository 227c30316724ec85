package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/workhub/workhub-backend/internal/models"
	"github.com/workhub/workhub-backend/internal/service"
)

// stubNegotiationService возвращает заранее заданные результаты.
type stubNegotiationService struct {
	proposal   *models.Proposal
	counterBid *models.CounterBid
	respond    *service.CounterBidResponse
}

func (s *stubNegotiationService) SubmitProposal(ctx context.Context, in service.SubmitProposalInput) (*models.Proposal, error) {
	return s.proposal, nil
}

func (s *stubNegotiationService) UpdateProposalStatus(ctx context.Context, proposalID, actorID uuid.UUID, status string) (*models.Proposal, error) {
	return s.proposal, nil
}

func (s *stubNegotiationService) ListJobProposals(ctx context.Context, jobID, actorID uuid.UUID) ([]models.Proposal, error) {
	return nil, nil
}

func (s *stubNegotiationService) ListMyProposals(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error) {
	return nil, nil
}

func (s *stubNegotiationService) CreateCounterBid(ctx context.Context, in service.CreateCounterBidInput) (*models.CounterBid, error) {
	return s.counterBid, nil
}

func (s *stubNegotiationService) RespondToCounterBid(ctx context.Context, in service.RespondToCounterBidInput) (*service.CounterBidResponse, error) {
	return s.respond, nil
}

func (s *stubNegotiationService) ListCounterBids(ctx context.Context, proposalID, actorID uuid.UUID) ([]models.CounterBid, error) {
	return nil, nil
}

func (s *stubNegotiationService) ListUserCounterBids(ctx context.Context, userID uuid.UUID) ([]models.UserCounterBid, error) {
	return nil, nil
}

func TestCounterBidHandler_Create_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &CounterBidHandler{negotiations: nil}
	r.POST("/proposals/counter-bids", handler.Create)

	req, _ := http.NewRequest("POST", "/proposals/counter-bids", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCounterBidHandler_Respond_InvalidCounterBidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	handler := &CounterBidHandler{negotiations: nil}
	r.PUT("/proposals/counter-bids/:counterBidId", handler.Respond)

	req, _ := http.NewRequest("PUT", "/proposals/counter-bids/invalid-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCounterBidHandler_Create_InvalidProposalID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	handler := &CounterBidHandler{negotiations: nil}
	r.POST("/proposals/counter-bids", handler.Create)

	body := strings.NewReader(`{"proposal_id":"not-a-uuid","counter_amount":1000}`)
	req, _ := http.NewRequest("POST", "/proposals/counter-bids", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProposalHandler_Create_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{negotiations: nil}
	r.POST("/proposals", handler.Create)

	req, _ := http.NewRequest("POST", "/proposals", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProposalHandler_UpdateStatus_InvalidProposalID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	handler := &ProposalHandler{negotiations: nil}
	r.PUT("/proposals/:proposalId", handler.UpdateStatus)

	req, _ := http.NewRequest("PUT", "/proposals/invalid-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProposalHandler_UpdateStatus_ResponseEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})

	proposal := &models.Proposal{ID: uuid.New(), Status: models.ProposalStatusAccepted}
	handler := &ProposalHandler{negotiations: &stubNegotiationService{proposal: proposal}}
	r.PUT("/proposals/:proposalId", handler.UpdateStatus)

	body := strings.NewReader(`{"status":"accepted"}`)
	req, _ := http.NewRequest("PUT", "/proposals/"+uuid.NewString(), body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "message")
	assert.Contains(t, resp, "proposal")
}

func TestCounterBidHandler_Create_ResponseEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})

	cb := &models.CounterBid{ID: uuid.New(), Status: models.CounterBidStatusPending}
	handler := &CounterBidHandler{negotiations: &stubNegotiationService{counterBid: cb}}
	r.POST("/proposals/counter-bids", handler.Create)

	body := strings.NewReader(`{"proposal_id":"` + uuid.NewString() + `","counter_amount":900}`)
	req, _ := http.NewRequest("POST", "/proposals/counter-bids", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "message")
	assert.Contains(t, resp, "counter_bid")
}

func TestCounterBidHandler_Respond_ResponseEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})

	result := &service.CounterBidResponse{
		Action:     service.CounterBidActionAccept,
		CounterBid: &models.CounterBid{ID: uuid.New(), Status: models.CounterBidStatusAccepted},
	}
	handler := &CounterBidHandler{negotiations: &stubNegotiationService{respond: result}}
	r.PUT("/proposals/counter-bids/:counterBidId", handler.Respond)

	body := strings.NewReader(`{"action":"accept"}`)
	req, _ := http.NewRequest("PUT", "/proposals/counter-bids/"+uuid.NewString(), body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "message")
	assert.Contains(t, resp, "action")
	assert.Contains(t, resp, "counter_bid")
}

func TestJobHandler_List_InvalidBudgetFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &JobHandler{jobs: nil}
	r.GET("/jobs", handler.List)

	req, _ := http.NewRequest("GET", "/jobs?min_budget=abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

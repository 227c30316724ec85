package dto

import (
	"github.com/workhub/workhub-backend/internal/models"
	"github.com/workhub/workhub-backend/internal/service"
)

// AuthResponse represents a successful register/login/refresh result
type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// NewAuthResponse creates an AuthResponse from the service result
func NewAuthResponse(res *service.AuthResult) *AuthResponse {
	return &AuthResponse{
		User:         res.User,
		AccessToken:  res.TokenPair.AccessToken,
		RefreshToken: res.TokenPair.RefreshToken,
	}
}

// JobListResponse represents a page of jobs
type JobListResponse struct {
	Jobs  []models.Job `json:"jobs"`
	Total int          `json:"total"`
}

// UnreadCountResponse represents the unread notifications counter
type UnreadCountResponse struct {
	Count int `json:"count"`
}

// MessageResponse represents a plain status message
type MessageResponse struct {
	Message string `json:"message"`
}

// ProposalStatusResponse wraps the proposal after an accept/reject decision
type ProposalStatusResponse struct {
	Message  string           `json:"message"`
	Proposal *models.Proposal `json:"proposal"`
}

// CounterBidCreatedResponse wraps a freshly created counter-bid
type CounterBidCreatedResponse struct {
	Message    string             `json:"message"`
	CounterBid *models.CounterBid `json:"counter_bid"`
}

// CounterBidActionResponse wraps the outcome of a counter-bid response
type CounterBidActionResponse struct {
	Message    string             `json:"message"`
	Action     string             `json:"action"`
	CounterBid *models.CounterBid `json:"counter_bid"`
	Proposal   *models.Proposal   `json:"proposal,omitempty"`
}

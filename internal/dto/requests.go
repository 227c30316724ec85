package dto

// RegisterRequest represents the request to register a new user
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// LoginRequest represents the request to log in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request to refresh the token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest represents the request to update the current profile
type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateJobRequest represents the request to create a job.
// Amounts are pointers: a zero budget is a valid value, only a missing
// field fails the required binding.
type CreateJobRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Skills      []string `json:"skills"`
	Budget      *float64 `json:"budget" binding:"required"`
}

// UpdateJobRequest represents the request to update a job
type UpdateJobRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Skills      []string `json:"skills"`
	Budget      *float64 `json:"budget" binding:"required"`
	Status      string   `json:"status"`
}

// CreateProposalRequest represents the request to submit a proposal
type CreateProposalRequest struct {
	JobID       string   `json:"job_id" binding:"required"`
	CoverLetter string   `json:"cover_letter" binding:"required"`
	BidAmount   *float64 `json:"bid_amount" binding:"required"`
}

// UpdateProposalStatusRequest represents the request to accept or reject a proposal
type UpdateProposalStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateCounterBidRequest represents the request to create a counter-bid
type CreateCounterBidRequest struct {
	ProposalID    string   `json:"proposal_id" binding:"required"`
	CounterAmount *float64 `json:"counter_amount" binding:"required"`
	Message       *string  `json:"message"`
}

// RespondCounterBidRequest represents the response to a counter-bid:
// accept, reject or counter with a new amount
type RespondCounterBidRequest struct {
	Action           string   `json:"action" binding:"required"`
	NewCounterAmount *float64 `json:"new_counter_amount"`
	Message          *string  `json:"message"`
}

// SeedRequest represents the request to generate demo data
type SeedRequest struct {
	NumUsers int `json:"num_users"`
	NumJobs  int `json:"num_jobs"`
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/workhub/workhub-backend/internal/dto"
	"github.com/workhub/workhub-backend/internal/service"
)

// SeedHandler обрабатывает генерацию демонстрационных данных.
// Маршрут подключается только вне production окружения.
type SeedHandler struct {
	seed *service.SeedService
}

// NewSeedHandler создаёт новый seed handler.
func NewSeedHandler(seed *service.SeedService) *SeedHandler {
	return &SeedHandler{seed: seed}
}

// Seed обрабатывает POST /api/seed.
func (h *SeedHandler) Seed(c *gin.Context) {
	req := dto.SeedRequest{NumUsers: 20, NumJobs: 30}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if req.NumUsers < 1 {
		req.NumUsers = 20
	}
	if req.NumJobs < 1 {
		req.NumJobs = 30
	}
	if req.NumUsers > 500 {
		req.NumUsers = 500
	}
	if req.NumJobs > 1000 {
		req.NumJobs = 1000
	}

	if err := h.seed.SeedData(c.Request.Context(), req.NumUsers, req.NumJobs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "демо-данные созданы",
		"num_users": req.NumUsers,
		"num_jobs":  req.NumJobs,
	})
}

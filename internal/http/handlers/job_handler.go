package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/workhub/workhub-backend/internal/dto"
	"github.com/workhub/workhub-backend/internal/repository"
	"github.com/workhub/workhub-backend/internal/service"
)

// JobHandler предоставляет HTTP слой для работы с заказами.
type JobHandler struct {
	jobs *service.JobService
}

// NewJobHandler создаёт хэндлер.
func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// Create обрабатывает POST /api/jobs.
func (h *JobHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.jobs.CreateJob(c.Request.Context(), service.CreateJobInput{
		ClientID:    userID,
		Title:       req.Title,
		Description: req.Description,
		Skills:      req.Skills,
		Budget:      *req.Budget,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

// List обрабатывает GET /api/jobs — публичный список открытых заказов.
// Поддерживает фильтры: search, skills (через запятую), min_budget, max_budget.
func (h *JobHandler) List(c *gin.Context) {
	params := repository.JobFilterParams{
		Search: strings.TrimSpace(c.Query("search")),
	}

	if raw := c.Query("skills"); raw != "" {
		for _, skill := range strings.Split(raw, ",") {
			if s := strings.TrimSpace(skill); s != "" {
				params.Skills = append(params.Skills, s)
			}
		}
	}

	if raw := c.Query("min_budget"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_budget должен быть неотрицательным числом"})
			return
		}
		params.MinBudget = &v
	}

	if raw := c.Query("max_budget"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_budget должен быть неотрицательным числом"})
			return
		}
		params.MaxBudget = &v
	}

	jobs, err := h.jobs.ListJobs(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.JobListResponse{Jobs: jobs, Total: len(jobs)})
}

// ListMy обрабатывает GET /api/jobs/my — заказы текущего заказчика.
func (h *JobHandler) ListMy(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	jobs, err := h.jobs.ListMyJobs(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.JobListResponse{Jobs: jobs, Total: len(jobs)})
}

// Get обрабатывает GET /api/jobs/:id.
func (h *JobHandler) Get(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный идентификатор заказа"})
		return
	}

	job, err := h.jobs.GetJob(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// Update обрабатывает PUT /api/jobs/:id.
func (h *JobHandler) Update(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный идентификатор заказа"})
		return
	}

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.jobs.UpdateJob(c.Request.Context(), service.UpdateJobInput{
		JobID:       jobID,
		ClientID:    userID,
		Title:       req.Title,
		Description: req.Description,
		Skills:      req.Skills,
		Budget:      *req.Budget,
		Status:      req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// Delete обрабатывает DELETE /api/jobs/:id.
func (h *JobHandler) Delete(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный идентификатор заказа"})
		return
	}

	if err := h.jobs.DeleteJob(c.Request.Context(), jobID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "заказ удалён"})
}

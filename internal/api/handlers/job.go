package handlers

import (
	"net/http"

	"maskoff-server/internal/api/middleware"
	"maskoff-server/internal/models"
	"maskoff-server/internal/service"
	"maskoff-server/internal/websocket"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobs       service.JobService
	dispatcher *websocket.Dispatcher
}

func NewJobHandler(jobs service.JobService, dispatcher *websocket.Dispatcher) *JobHandler {
	return &JobHandler{jobs: jobs, dispatcher: dispatcher}
}

func (h *JobHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/jobs", h.List)
	r.POST("/jobs", h.Create)
	r.GET("/jobs/:jobID", h.Get)
	r.PUT("/jobs/:jobID", h.Update)
	r.DELETE("/jobs/:jobID", h.Delete)
	r.POST("/jobs/:jobID/apply", h.Apply)
	r.GET("/jobs/:jobID/applications", h.ListApplications)
	r.PUT("/jobs/:jobID/applications/:applicationID", h.UpdateApplication)
}

// List godoc
// @Summary      List all job postings, newest first
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} models.JobWithAuthor
// @Router       /api/jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	jobs, err := h.jobs.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// Create godoc
// @Summary      Post a new job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.CreateJobRequest true "Job details"
// @Success      201 {object} models.JobWithAuthor
// @Router       /api/jobs [post]
func (h *JobHandler) Create(c *gin.Context) {
	var req models.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.dispatcher.Broadcast(websocket.NewUpdate(websocket.UpdateRefresh))
	c.JSON(http.StatusCreated, job)
}

// Get godoc
// @Summary      Fetch a single job posting
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        jobID path string true "Job ID"
// @Success      200 {object} models.JobWithAuthor
// @Failure      404 {object} map[string]string
// @Router       /api/jobs/{jobID} [get]
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.jobs.Get(c.Request.Context(), c.Param("jobID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Update godoc
// @Summary      Edit the caller's job posting
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        jobID path string true "Job ID"
// @Param        request body models.UpdateJobRequest true "Fields to change"
// @Success      200 {object} models.JobWithAuthor
// @Failure      403 {object} map[string]string
// @Router       /api/jobs/{jobID} [put]
func (h *JobHandler) Update(c *gin.Context) {
	var req models.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.jobs.Update(c.Request.Context(), middleware.UserID(c), c.Param("jobID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.dispatcher.Broadcast(websocket.NewUpdate(websocket.UpdateRefresh))
	c.JSON(http.StatusOK, job)
}

// Delete godoc
// @Summary      Delete the caller's job posting
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        jobID path string true "Job ID"
// @Success      200 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Router       /api/jobs/{jobID} [delete]
func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.jobs.Delete(c.Request.Context(), middleware.UserID(c), c.Param("jobID")); err != nil {
		respondError(c, err)
		return
	}

	h.dispatcher.Broadcast(websocket.NewUpdate(websocket.UpdateRefresh))
	c.JSON(http.StatusOK, gin.H{"message": "job deleted"})
}

// Apply godoc
// @Summary      Apply to a job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        jobID path string true "Job ID"
// @Param        request body models.ApplyJobRequest true "Application message"
// @Success      201 {object} models.JobApplication
// @Failure      409 {object} map[string]string
// @Router       /api/jobs/{jobID}/apply [post]
func (h *JobHandler) Apply(c *gin.Context) {
	var req models.ApplyJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := h.jobs.Apply(c.Request.Context(), middleware.UserID(c), c.Param("jobID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.dispatcher.Broadcast(websocket.NewUpdate(websocket.UpdateRefresh))
	c.JSON(http.StatusCreated, app)
}

// ListApplications godoc
// @Summary      List applications for the caller's job
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        jobID path string true "Job ID"
// @Success      200 {array} models.ApplicationInfo
// @Failure      403 {object} map[string]string
// @Router       /api/jobs/{jobID}/applications [get]
func (h *JobHandler) ListApplications(c *gin.Context) {
	apps, err := h.jobs.ListApplications(c.Request.Context(), middleware.UserID(c), c.Param("jobID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// UpdateApplication godoc
// @Summary      Accept or reject an application
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        jobID path string true "Job ID"
// @Param        applicationID path string true "Application ID"
// @Param        request body models.UpdateApplicationRequest true "New status"
// @Success      200 {object} models.JobApplication
// @Failure      403 {object} map[string]string
// @Router       /api/jobs/{jobID}/applications/{applicationID} [put]
func (h *JobHandler) UpdateApplication(c *gin.Context) {
	var req models.UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := h.jobs.UpdateApplication(c.Request.Context(), middleware.UserID(c), c.Param("jobID"), c.Param("applicationID"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	h.dispatcher.Broadcast(websocket.NewUpdate(websocket.UpdateRefresh))
	c.JSON(http.StatusOK, app)
}

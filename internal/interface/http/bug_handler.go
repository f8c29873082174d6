package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bug-tracker-api/internal/application"
	repo "github.com/oksasatya/bug-tracker-api/internal/domain/repository"
	"github.com/oksasatya/bug-tracker-api/internal/interface/middleware"
	"github.com/oksasatya/bug-tracker-api/pkg/response"
	"github.com/oksasatya/bug-tracker-api/pkg/validation"
)

type BugHandler struct {
	Svc    *application.BugService
	Logger *logrus.Logger
}

func NewBugHandler(svc *application.BugService, logger *logrus.Logger) *BugHandler {
	return &BugHandler{Svc: svc, Logger: logger}
}

type createBugRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Status      string  `json:"status" binding:"omitempty,oneof=open in-progress resolved"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	AssignedTo  *string `json:"assigned_to" binding:"omitempty,uuid"`
}

// updateBugRequest is a partial patch; absent fields stay nil and are left
// untouched. An explicit empty assigned_to clears the assignee. There is no
// created_by field: ownership in a payload is ignored by construction.
type updateBugRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=open in-progress resolved"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high"`
	AssignedTo  *string `json:"assigned_to"`
}

func principalOr401(c *gin.Context) (application.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
	}
	return p, ok
}

// Create POST /api/bugs
func (h *BugHandler) Create(c *gin.Context) {
	p, ok := principalOr401(c)
	if !ok {
		return
	}
	var req createBugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	b, err := h.Svc.Create(c.Request.Context(), application.CreateBugInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
	}, p)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b, "bug created", nil)
}

// List GET /api/bugs?status=&priority=&assignedTo=
func (h *BugHandler) List(c *gin.Context) {
	p, ok := principalOr401(c)
	if !ok {
		return
	}
	f := repo.BugFilter{
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		AssignedTo: c.Query("assignedTo"),
	}
	bugs, err := h.Svc.List(c.Request.Context(), f, p)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bugs, "bugs", map[string]any{"count": len(bugs)})
}

// Get GET /api/bugs/:id
func (h *BugHandler) Get(c *gin.Context) {
	b, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b, "bug", nil)
}

// Update PUT /api/bugs/:id
func (h *BugHandler) Update(c *gin.Context) {
	p, ok := principalOr401(c)
	if !ok {
		return
	}
	var req updateBugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	b, err := h.Svc.Update(c.Request.Context(), c.Param("id"), application.UpdateBugInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
	}, p)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b, "bug updated", nil)
}

// Delete DELETE /api/bugs/:id
func (h *BugHandler) Delete(c *gin.Context) {
	p, ok := principalOr401(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id"), p); err != nil {
		writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "bug deleted", nil)
}

// Stats GET /api/bugs/stats
func (h *BugHandler) Stats(c *gin.Context) {
	p, ok := principalOr401(c)
	if !ok {
		return
	}
	st, err := h.Svc.ComputeStats(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st, "stats", nil)
}

// Search GET /api/bugs/search?q=&size=
func (h *BugHandler) Search(c *gin.Context) {
	if _, ok := principalOr401(c); !ok {
		return
	}
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", map[string]string{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	docs, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, docs, "search results", map[string]any{"count": len(docs)})
}

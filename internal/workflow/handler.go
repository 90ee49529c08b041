package workflow

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"parish-registry/registry-backend/internal/auth"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	docs := rg.Group("/documents")
	{
		docs.GET("/:id/workflow", h.History)
		docs.POST("/:id/workflow", h.Route)
		docs.POST("/:id/resolve", h.Resolve)
	}
}

type routeBody struct {
	ToUserID       *uuid.UUID `json:"to_user_id"`
	ToDepartmentID *uuid.UUID `json:"to_department_id"`
	ParentStepID   *uuid.UUID `json:"parent_step_id"`
	Action         StepAction `json:"action" binding:"required"`
	Notes          *string    `json:"notes"`
}

type resolveBody struct {
	ResolutionStatus ResolutionStatus `json:"resolution_status" binding:"required"`
	Resolution       *string          `json:"resolution"`
	Notes            *string          `json:"notes"`
	WorkflowStepID   *uuid.UUID       `json:"workflow_step_id"`
}

func (h *Handler) Route(c *gin.Context) {
	actorID, ok := auth.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	var body routeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	step, err := h.service.RouteDocument(c.Request.Context(), RouteRequest{
		DocumentID:     documentID,
		ActorID:        actorID,
		ToUserID:       body.ToUserID,
		ToDepartmentID: body.ToDepartmentID,
		ParentStepID:   body.ParentStepID,
		Action:         body.Action,
		Notes:          body.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, step)
}

func (h *Handler) Resolve(c *gin.Context) {
	actorID, ok := auth.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	var body resolveBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.ResolveDocument(c.Request.Context(), ResolveRequest{
		DocumentID:       documentID,
		ActorID:          actorID,
		ResolutionStatus: body.ResolutionStatus,
		Resolution:       body.Resolution,
		Notes:            body.Notes,
		WorkflowStepID:   body.WorkflowStepID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) History(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	history, err := h.service.GetWorkflowHistory(c.Request.Context(), documentID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var (
		notFound   *NotFoundError
		validation *ValidationError
		authzErr   *AuthorizationError
		conflict   *ConflictError
	)
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &authzErr):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("workflow operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

package documents

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
		docs.POST("", h.Register)
		docs.GET("", h.List)
		docs.GET("/:id", h.Get)
		docs.PATCH("/:id/status", h.ChangeStatus)
	}
}

func (h *Handler) Register(c *gin.Context) {
	actorID, ok := auth.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	var req struct {
		RegistryType       RegistryType `json:"registry_type" binding:"required"`
		Title              string       `json:"title" binding:"required"`
		Description        string       `json:"description"`
		RegistrationNumber string       `json:"registration_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.service.RegisterDocument(c.Request.Context(), RegisterRequest{
		RegistryType:       req.RegistryType,
		Title:              req.Title,
		Description:        req.Description,
		RegistrationNumber: req.RegistrationNumber,
		CreatedBy:          actorID,
	})
	if err != nil {
		h.logger.Error("failed to register document", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) List(c *gin.Context) {
	var registryType *RegistryType
	if v := c.Query("registry_type"); v != "" {
		rt := RegistryType(v)
		if !rt.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registry_type"})
			return
		}
		registryType = &rt
	}

	var status *Status
	if v := c.Query("status"); v != "" {
		st := Status(v)
		status = &st
	}

	docs, err := h.service.ListDocuments(c.Request.Context(), registryType, status)
	if err != nil {
		h.logger.Error("failed to list documents", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, docs)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	doc, err := h.service.GetDocument(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("failed to get document", zap.Error(err), zap.String("document_id", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	actorID, ok := auth.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req struct {
		Status Status `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.service.ChangeStatus(c.Request.Context(), id, req.Status, actorID)
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
	case errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		h.logger.Error("failed to change status", zap.Error(err), zap.String("document_id", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, doc)
	}
}

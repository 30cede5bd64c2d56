package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/furnix/furnix-api/internal/dto"
	"github.com/furnix/furnix-api/internal/middleware"
	"github.com/furnix/furnix-api/internal/model"
	"github.com/furnix/furnix-api/internal/service"
)

type CustomOrderHandler struct {
	customOrderService *service.CustomOrderService
}

func NewCustomOrderHandler(customOrderService *service.CustomOrderService) *CustomOrderHandler {
	return &CustomOrderHandler{customOrderService: customOrderService}
}

// Create accepts a multipart intake submission with optional file
// attachments under the "files" field.
func (h *CustomOrderHandler) Create(c *gin.Context) {
	var req dto.CreateCustomOrderRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var attachments []service.Attachment
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["files"] {
			f, err := fh.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable attachment"})
				return
			}
			defer f.Close()
			attachments = append(attachments, service.Attachment{Name: fh.Filename, Content: f})
		}
	}

	resp, err := h.customOrderService.Create(c.Request.Context(), req, middleware.GetUserID(c), attachments)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// List is role-scoped: non-admin callers only see their own submissions.
func (h *CustomOrderHandler) List(c *gin.Context) {
	var req dto.ListCustomOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	restrictEmail := ""
	role := middleware.GetUserRole(c)
	if role != string(model.RoleAdmin) && role != string(model.RoleSuperAdmin) {
		restrictEmail = middleware.GetUserEmail(c)
	}

	resp, err := h.customOrderService.List(c.Request.Context(), req, restrictEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CustomOrderHandler) Mine(c *gin.Context) {
	email := middleware.GetUserEmail(c)
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email not found in token"})
		return
	}

	resp, err := h.customOrderService.ListByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CustomOrderHandler) Get(c *gin.Context) {
	resp, err := h.customOrderService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		case errors.Is(err, service.ErrCustomOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CustomOrderHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateCustomOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.customOrderService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.AdminNotes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		case errors.Is(err, service.ErrCustomOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CustomOrderHandler) Delete(c *gin.Context) {
	if err := h.customOrderService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		case errors.Is(err, service.ErrCustomOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tablescape/tablescape-orders-service/internal/apperrors"
	"github.com/tablescape/tablescape-orders-service/internal/config"
	"github.com/tablescape/tablescape-orders-service/internal/logging"
	"github.com/tablescape/tablescape-orders-service/internal/pricing"
	"github.com/tablescape/tablescape-orders-service/internal/service"
)

// Handlers holds all HTTP handlers for the orders service.
type Handlers struct {
	orderService *service.OrderService
	config       *config.Config
	logger       *logging.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(orderService *service.OrderService, cfg *config.Config) *Handlers {
	return &Handlers{
		orderService: orderService,
		config:       cfg,
		logger:       logging.NewLogger("handlers"),
	}
}

func handleError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
		return
	}

	if code := pricing.CodeOf(err); code != "" {
		status := http.StatusUnprocessableEntity
		if code == pricing.ErrCodeRoundingOverflow {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
			"code":  string(code),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

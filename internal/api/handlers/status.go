package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/asin-analyzer/internal/services"
)

// QuotaReporter exposes the Keepa token status
type QuotaReporter interface {
	GetQuota() services.KeepaQuota
}

type StatusHandler struct {
	keepa QuotaReporter
}

func NewStatusHandler(keepa QuotaReporter) *StatusHandler {
	return &StatusHandler{
		keepa: keepa,
	}
}

// GetKeepaStatus returns the current Keepa token quota
func (h *StatusHandler) GetKeepaStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.keepa.GetQuota())
}

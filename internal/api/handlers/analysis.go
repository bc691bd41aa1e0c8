package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/asin-analyzer/internal/analysis"
	"github.com/codyseavey/asin-analyzer/internal/models"
	"github.com/codyseavey/asin-analyzer/internal/services"
)

// Analyzer produces the report for an ASIN
type Analyzer interface {
	Analyze(ctx context.Context, asin string) models.AnalysisResult
}

type AnalysisHandler struct {
	analyzer Analyzer
}

func NewAnalysisHandler(analyzer Analyzer) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
	}
}

// Index renders the ASIN entry form
func (h *AnalysisHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

// AnalyzeForm handles the form post and renders the report page. A blank
// ASIN sends the user back to the form.
func (h *AnalysisHandler) AnalyzeForm(c *gin.Context) {
	asin := services.NormalizeASIN(c.PostForm("asin"))
	if asin == "" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	result := h.analyzer.Analyze(c.Request.Context(), asin)

	c.HTML(http.StatusOK, "analysis.html", gin.H{
		"ASIN":    asin,
		"Error":   result.Error,
		"Summary": result.Summary,
	})
}

// GetSummary returns the report as JSON: the summary itself on success, or
// {"error": "..."} with 404 for an unknown product and 502 for a Keepa failure.
func (h *AnalysisHandler) GetSummary(c *gin.Context) {
	asin := services.NormalizeASIN(c.Param("asin"))
	if asin == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asin is required"})
		return
	}

	result := h.analyzer.Analyze(c.Request.Context(), asin)

	switch {
	case !result.Failed():
		c.JSON(http.StatusOK, result)
	case result.Error == analysis.NoProductDataMessage:
		c.JSON(http.StatusNotFound, result)
	default:
		c.JSON(http.StatusBadGateway, result)
	}
}

package http

import (
	"errors"
	"net/http"

	"github.com/codemindhq/codemind/internal/analysis"
	"github.com/codemindhq/codemind/internal/api/http/converter"
	"github.com/codemindhq/codemind/internal/domain"
	"github.com/codemindhq/codemind/internal/service"
	"github.com/gin-gonic/gin"
)

const recentReportsLimit = 12

type AnalysisController struct {
	analyses service.AnalysisInteractor
}

func NewAnalysisController(analyses service.AnalysisInteractor) *AnalysisController {
	return &AnalysisController{analyses: analyses}
}

func (c *AnalysisController) Analyze(ctx *gin.Context) {
	type AnalyzeRequest struct {
		Code       string `json:"code" binding:"required"`
		Language   string `json:"language" binding:"required"`
		Repository string `json:"repository"`
	}
	var req AnalyzeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	identity, _ := CurrentIdentity(ctx)
	report, err := c.analyses.Analyze(ctx.Request.Context(), identity.UserID, domain.AnalysisRequest{
		Code:       req.Code,
		Language:   req.Language,
		Repository: req.Repository,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, analysis.ErrUnavailable) {
			status = http.StatusBadGateway
		}
		if errors.Is(err, service.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"analysis": converter.ReportToApi(report)})
}

func (c *AnalysisController) Analytics(ctx *gin.Context) {
	identity, _ := CurrentIdentity(ctx)
	analytics, err := c.analyses.Analytics(ctx.Request.Context(), identity.UserID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"analytics": converter.AnalyticsToApi(analytics)})
}

func (c *AnalysisController) Recent(ctx *gin.Context) {
	identity, _ := CurrentIdentity(ctx)
	reports, err := c.analyses.Recent(ctx.Request.Context(), identity.UserID, recentReportsLimit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"reports": converter.SummariesToApi(reports)})
}

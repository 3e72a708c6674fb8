package http

import (
	"errors"
	"net/http"

	"github.com/codemindhq/codemind/internal/api/http/converter"
	"github.com/codemindhq/codemind/internal/domain"
	"github.com/codemindhq/codemind/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RuleController struct {
	rules service.RuleInteractor
}

func NewRuleController(rules service.RuleInteractor) *RuleController {
	return &RuleController{rules: rules}
}

func (c *RuleController) CreateRule(ctx *gin.Context) {
	type CreateRuleRequest struct {
		Name     string `json:"name" binding:"required"`
		Pattern  string `json:"pattern" binding:"required"`
		Message  string `json:"message"`
		Severity string `json:"severity" binding:"required"`
	}
	var req CreateRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	identity, _ := CurrentIdentity(ctx)
	rule, err := c.rules.CreateRule(ctx.Request.Context(), identity.UserID, req.Name, req.Pattern, req.Message, domain.Severity(req.Severity))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrInvalidInput) ||
			errors.Is(err, service.ErrInvalidSeverity) ||
			errors.Is(err, service.ErrInvalidPattern) {
			status = http.StatusBadRequest
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"rule": converter.RuleToApi(rule)})
}

func (c *RuleController) ListRules(ctx *gin.Context) {
	identity, _ := CurrentIdentity(ctx)
	rules, err := c.rules.ListRules(ctx.Request.Context(), identity.UserID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"rules": converter.RulesToApi(rules)})
}

func (c *RuleController) SaveFeedback(ctx *gin.Context) {
	type FeedbackRequest struct {
		AnalysisID string `json:"analysis_id" binding:"required"`
		Accepted   *bool  `json:"accepted" binding:"required"`
		Note       string `json:"note"`
	}
	var req FeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	analysisID, err := uuid.Parse(req.AnalysisID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis id"})
		return
	}
	identity, _ := CurrentIdentity(ctx)
	if err := c.rules.SaveFeedback(ctx.Request.Context(), identity.UserID, analysisID, *req.Accepted, req.Note); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

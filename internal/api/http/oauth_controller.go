package http

import (
	"errors"
	"net/http"

	"github.com/codemindhq/codemind/internal/api/http/converter"
	"github.com/codemindhq/codemind/internal/oauth"
	"github.com/codemindhq/codemind/internal/repository"
	"github.com/codemindhq/codemind/internal/service"
	"github.com/gin-gonic/gin"
)

type OAuthController struct {
	flows service.OAuthInteractor
}

func NewOAuthController(flows service.OAuthInteractor) *OAuthController {
	return &OAuthController{flows: flows}
}

func (c *OAuthController) Start(ctx *gin.Context) {
	identity, _ := CurrentIdentity(ctx)
	authURL, err := c.flows.Start(ctx.Request.Context(), identity.UserID, ctx.Param("provider"))
	if err != nil {
		respondOAuthError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"authorize_url": authURL})
}

// Callback lands from the provider, not the frontend, so it finishes with
// a browser redirect instead of JSON.
func (c *OAuthController) Callback(ctx *gin.Context) {
	redirectURL, err := c.flows.Callback(
		ctx.Request.Context(),
		ctx.Param("provider"),
		ctx.Query("code"),
		ctx.Query("state"),
	)
	if err != nil {
		respondOAuthError(ctx, err)
		return
	}
	ctx.Redirect(http.StatusFound, redirectURL)
}

func (c *OAuthController) Connections(ctx *gin.Context) {
	identity, _ := CurrentIdentity(ctx)
	connections, err := c.flows.Connections(ctx.Request.Context(), identity.UserID)
	if err != nil {
		respondOAuthError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"connections": converter.ConnectionsToApi(connections)})
}

func (c *OAuthController) ListRepositories(ctx *gin.Context) {
	identity, _ := CurrentIdentity(ctx)
	repos, err := c.flows.ListRepositories(ctx.Request.Context(), identity.UserID, ctx.Param("provider"))
	if err != nil {
		respondOAuthError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"repositories": repos})
}

func respondOAuthError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, oauth.ErrUnsupportedProvider),
		errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrExchangeFailed):
		status = http.StatusBadRequest
	case errors.Is(err, oauth.ErrNotConfigured):
		status = http.StatusServiceUnavailable
	case errors.Is(err, repository.ErrConnectionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, oauth.ErrUpstream):
		status = http.StatusBadGateway
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}

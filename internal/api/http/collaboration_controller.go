package http

import (
	"errors"
	"net/http"

	"github.com/codemindhq/codemind/internal/api/http/converter"
	"github.com/codemindhq/codemind/internal/domain"
	"github.com/codemindhq/codemind/internal/repository"
	"github.com/codemindhq/codemind/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CollaborationController struct {
	collaboration service.CollaborationInteractor
}

func NewCollaborationController(collaboration service.CollaborationInteractor) *CollaborationController {
	return &CollaborationController{collaboration: collaboration}
}

func (c *CollaborationController) CreateRoom(ctx *gin.Context) {
	type CreateRoomRequest struct {
		Name       string `json:"name" binding:"required"`
		Repository string `json:"repository"`
	}
	var req CreateRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	identity, _ := CurrentIdentity(ctx)
	room, err := c.collaboration.CreateRoom(ctx.Request.Context(), identity.UserID, req.Name, req.Repository)
	if err != nil {
		respondCollaborationError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"room": converter.RoomToApi(room)})
}

func (c *CollaborationController) ListRooms(ctx *gin.Context) {
	identity, _ := CurrentIdentity(ctx)
	rooms, err := c.collaboration.ListRooms(ctx.Request.Context(), identity.UserID)
	if err != nil {
		respondCollaborationError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"rooms": converter.RoomsToApi(rooms)})
}

func (c *CollaborationController) AddParticipant(ctx *gin.Context) {
	roomID, err := uuid.Parse(ctx.Param("roomID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	type AddParticipantRequest struct {
		UserID string `json:"user_id" binding:"required"`
		Role   string `json:"role" binding:"required"`
	}
	var req AddParticipantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	identity, _ := CurrentIdentity(ctx)
	if err := c.collaboration.AddParticipant(ctx.Request.Context(), identity.UserID, roomID, req.UserID, domain.Role(req.Role)); err != nil {
		respondCollaborationError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (c *CollaborationController) CreateThread(ctx *gin.Context) {
	roomID, err := uuid.Parse(ctx.Param("roomID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	type CreateThreadRequest struct {
		Title string `json:"title" binding:"required"`
	}
	var req CreateThreadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	identity, _ := CurrentIdentity(ctx)
	thread, err := c.collaboration.CreateThread(ctx.Request.Context(), identity.UserID, roomID, req.Title)
	if err != nil {
		respondCollaborationError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"thread": converter.ThreadToApi(thread)})
}

func (c *CollaborationController) ListThreads(ctx *gin.Context) {
	roomID, err := uuid.Parse(ctx.Param("roomID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	identity, _ := CurrentIdentity(ctx)
	threads, err := c.collaboration.ListThreads(ctx.Request.Context(), identity.UserID, roomID)
	if err != nil {
		respondCollaborationError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"threads": converter.ThreadsToApi(threads)})
}

func (c *CollaborationController) CreateComment(ctx *gin.Context) {
	threadID, err := uuid.Parse(ctx.Param("threadID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid thread id"})
		return
	}
	type CreateCommentRequest struct {
		Body     string `json:"body" binding:"required"`
		ParentID string `json:"parent_id"`
	}
	var req CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	var parentID *uuid.UUID
	if req.ParentID != "" {
		parent, err := uuid.Parse(req.ParentID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid parent id"})
			return
		}
		parentID = &parent
	}
	identity, _ := CurrentIdentity(ctx)
	comment, err := c.collaboration.CreateComment(ctx.Request.Context(), identity.UserID, threadID, req.Body, parentID)
	if err != nil {
		respondCollaborationError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"comment": converter.CommentToApi(comment)})
}

func (c *CollaborationController) ListComments(ctx *gin.Context) {
	threadID, err := uuid.Parse(ctx.Param("threadID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid thread id"})
		return
	}
	identity, _ := CurrentIdentity(ctx)
	comments, err := c.collaboration.ListComments(ctx.Request.Context(), identity.UserID, threadID)
	if err != nil {
		respondCollaborationError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"comments": converter.CommentsToApi(comments)})
}

func (c *CollaborationController) ListNotifications(ctx *gin.Context) {
	identity, _ := CurrentIdentity(ctx)
	notifications, err := c.collaboration.ListNotifications(ctx.Request.Context(), identity.UserID)
	if err != nil {
		respondCollaborationError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"notifications": converter.NotificationsToApi(notifications)})
}

func (c *CollaborationController) MarkNotificationRead(ctx *gin.Context) {
	notificationID, err := uuid.Parse(ctx.Param("notificationID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	identity, _ := CurrentIdentity(ctx)
	if err := c.collaboration.MarkNotificationRead(ctx.Request.Context(), identity.UserID, notificationID); err != nil {
		respondCollaborationError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func respondCollaborationError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrParentMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotParticipant),
		errors.Is(err, service.ErrInsufficientRole),
		errors.Is(err, service.ErrOwnerRequired):
		status = http.StatusForbidden
	case errors.Is(err, repository.ErrRoomNotFound),
		errors.Is(err, repository.ErrThreadNotFound),
		errors.Is(err, repository.ErrCommentNotFound),
		errors.Is(err, repository.ErrNotificationNotFound):
		status = http.StatusNotFound
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}

package handler

import (
	"net/http"

	reactionDto "anoa.com/alumninetwork/internal/modules/reaction/dto"
	reaction "anoa.com/alumninetwork/internal/modules/reaction/service"
	"anoa.com/alumninetwork/pkg/response"
	"anoa.com/alumninetwork/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReactionHandler struct {
	service reaction.ReactionService
}

func NewReactionHandler(service reaction.ReactionService) *ReactionHandler {
	return &ReactionHandler{service: service}
}

func (h *ReactionHandler) CreateReaction(c *gin.Context) {
	userID, postID, ok := h.identify(c)
	if !ok {
		return
	}

	var req reactionDto.ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.Create(c.Request.Context(), userID, postID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *ReactionHandler) UpdateReaction(c *gin.Context) {
	userID, postID, ok := h.identify(c)
	if !ok {
		return
	}

	var req reactionDto.ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.Update(c.Request.Context(), userID, postID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ReactionHandler) DeleteReaction(c *gin.Context) {
	userID, postID, ok := h.identify(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, postID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "reaction removed"})
}

func (h *ReactionHandler) GetReactions(c *gin.Context) {
	postID, err := response.ParamUUID(c, "post_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var userIDPtr *uuid.UUID
	if uid, err := response.GetUserID(c); err == nil {
		userIDPtr = &uid
	}

	res, err := h.service.List(c.Request.Context(), userIDPtr, postID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ReactionHandler) identify(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return uuid.Nil, uuid.Nil, false
	}
	postID, err := response.ParamUUID(c, "post_id")
	if err != nil {
		response.ResponseError(c, err)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, postID, true
}

package handler

import (
	"net/http"

	statDto "anoa.com/alumninetwork/internal/modules/stat/dto"
	statService "anoa.com/alumninetwork/internal/modules/stat/service"
	"anoa.com/alumninetwork/pkg/response"
	"anoa.com/alumninetwork/pkg/validator"
	"github.com/gin-gonic/gin"
)

type StatHandler struct {
	statService statService.StatService
}

func NewStatHandler(statService statService.StatService) *StatHandler {
	return &StatHandler{statService: statService}
}

func (h *StatHandler) GetUserStats(c *gin.Context) {
	var query statDto.YearQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.statService.UserStats(c.Request.Context(), query.Year)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *StatHandler) GetPostStats(c *gin.Context) {
	var query statDto.YearQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.statService.PostStats(c.Request.Context(), query.Year)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *StatHandler) GetAvailableYears(c *gin.Context) {
	var query statDto.YearsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.statService.AvailableYears(c.Request.Context(), query.Source)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

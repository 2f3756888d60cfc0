package handler

import (
	"net/http"

	surveyDto "anoa.com/alumninetwork/internal/modules/survey/dto"
	survey "anoa.com/alumninetwork/internal/modules/survey/service"
	"anoa.com/alumninetwork/pkg/response"
	"anoa.com/alumninetwork/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SurveyHandler struct {
	service survey.SurveyService
}

func NewSurveyHandler(service survey.SurveyService) *SurveyHandler {
	return &SurveyHandler{service: service}
}

// callerAndID reads the authenticated user and the ":id" path parameter.
func callerAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return uuid.Nil, uuid.Nil, false
	}
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

func (h *SurveyHandler) CreateSurvey(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req surveyDto.CreateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *SurveyHandler) GetSurveys(c *gin.Context) {
	var filter surveyDto.SurveyFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *SurveyHandler) GetSurvey(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *SurveyHandler) UpdateSurvey(c *gin.Context) {
	userID, id, ok := callerAndID(c)
	if !ok {
		return
	}

	var req surveyDto.UpdateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *SurveyHandler) DeleteSurvey(c *gin.Context) {
	userID, id, ok := callerAndID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "survey deleted successfully"})
}

func (h *SurveyHandler) CreateQuestion(c *gin.Context) {
	userID, surveyID, ok := callerAndID(c)
	if !ok {
		return
	}

	var req surveyDto.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.CreateQuestion(c.Request.Context(), userID, surveyID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *SurveyHandler) GetQuestion(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.GetQuestion(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *SurveyHandler) UpdateQuestion(c *gin.Context) {
	userID, id, ok := callerAndID(c)
	if !ok {
		return
	}

	var req surveyDto.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.UpdateQuestion(c.Request.Context(), userID, id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *SurveyHandler) DeleteQuestion(c *gin.Context) {
	userID, id, ok := callerAndID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteQuestion(c.Request.Context(), userID, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "question deleted successfully"})
}

func (h *SurveyHandler) CreateChoice(c *gin.Context) {
	userID, questionID, ok := callerAndID(c)
	if !ok {
		return
	}

	var req surveyDto.ChoiceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.CreateChoice(c.Request.Context(), userID, questionID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *SurveyHandler) UpdateChoice(c *gin.Context) {
	userID, id, ok := callerAndID(c)
	if !ok {
		return
	}

	var req surveyDto.UpdateChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.UpdateChoice(c.Request.Context(), userID, id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *SurveyHandler) DeleteChoice(c *gin.Context) {
	userID, id, ok := callerAndID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteChoice(c.Request.Context(), userID, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "choice deleted successfully"})
}

func (h *SurveyHandler) SubmitAnswer(c *gin.Context) {
	userID, surveyID, ok := callerAndID(c)
	if !ok {
		return
	}

	var req surveyDto.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.Answer(c.Request.Context(), userID, surveyID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *SurveyHandler) GetMyAnswers(c *gin.Context) {
	userID, surveyID, ok := callerAndID(c)
	if !ok {
		return
	}

	res, err := h.service.MyAnswers(c.Request.Context(), userID, surveyID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *SurveyHandler) TakeSnapshot(c *gin.Context) {
	userID, surveyID, ok := callerAndID(c)
	if !ok {
		return
	}

	res, err := h.service.TakeSnapshot(c.Request.Context(), userID, surveyID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *SurveyHandler) GetStats(c *gin.Context) {
	userID, surveyID, ok := callerAndID(c)
	if !ok {
		return
	}

	res, err := h.service.Stats(c.Request.Context(), userID, surveyID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

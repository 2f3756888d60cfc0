package handler

import (
	"net/http"

	"anoa.com/alumninetwork/internal/modules/user/dto"
	userService "anoa.com/alumninetwork/internal/modules/user/service"
	commonDto "anoa.com/alumninetwork/pkg/dto"
	"anoa.com/alumninetwork/pkg/response"
	"anoa.com/alumninetwork/pkg/validator"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService userService.UserService
	authService userService.AuthService
}

func NewUserHandler(userService userService.UserService, authService userService.AuthService) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
	}
}

// Register accepts JSON or multipart; with multipart an "avatar" file may be attached.
func (h *UserHandler) Register(c *gin.Context) {
	var input dto.CreateUserInput
	if err := c.ShouldBind(&input); err != nil {
		response.BindError(c, validator.FormatValidationError(err))
		return
	}

	avatar, closeAvatar, ok := readAvatar(c)
	if !ok {
		return
	}
	defer closeAvatar()

	res, err := h.userService.Register(c.Request.Context(), input, avatar)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *UserHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *UserHandler) GetMe(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var query commonDto.PaginationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.userService.List(c.Request.Context(), query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.UpdateProfileInput
	if err := c.ShouldBind(&input); err != nil {
		response.BindError(c, validator.FormatValidationError(err))
		return
	}

	avatar, closeAvatar, ok := readAvatar(c)
	if !ok {
		return
	}
	defer closeAvatar()

	res, err := h.userService.UpdateProfile(c.Request.Context(), userID, input, avatar)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.userService.DeleteAccount(c.Request.Context(), userID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account deleted successfully"})
}

func (h *UserHandler) GetInteractions(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.userService.Interactions(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *UserHandler) GetInteractedBy(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.userService.InteractedBy(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *UserHandler) ReplaceInteractions(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.ReplaceInteractionsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.userService.ReplaceInteractions(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// readAvatar returns the optional "avatar" form file. ok is false when a response was
// already written.
func readAvatar(c *gin.Context) (*commonDto.AvatarFile, func(), bool) {
	fileHeader, err := c.FormFile("avatar")
	if err != nil || fileHeader == nil {
		return nil, func() {}, true
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BindError(c, "failed to read avatar")
		return nil, func() {}, false
	}

	return &commonDto.AvatarFile{
		Reader:   file,
		FileName: fileHeader.Filename,
	}, func() { _ = file.Close() }, true
}

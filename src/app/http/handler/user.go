package handler

import (
	"github.com/gin-gonic/gin"

	"fastai/src/app/http/dto"
	"fastai/src/app/http/response"
	"fastai/src/app/middleware"
	"fastai/src/core/usecase"
)

// UserHandler handles user endpoints.
type UserHandler struct {
	userService *usecase.UserService
}

func NewUserHandler(userService *usecase.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create registers a user. A duplicate email answers 409.
// POST /v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", middleware.GetRequestID(c))
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req.ToInput())
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}

	response.Created(c, dto.NewUserResponse(user))
}

// GET /v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}

	response.OK(c, dto.NewUserResponse(user))
}

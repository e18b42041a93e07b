package handler

import (
	"github.com/gin-gonic/gin"

	"fastai/src/app/http/dto"
	"fastai/src/app/http/response"
	"fastai/src/app/middleware"
	"fastai/src/core/usecase"
)

// ItemHandler handles item endpoints.
type ItemHandler struct {
	itemService *usecase.ItemService
}

func NewItemHandler(itemService *usecase.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// List returns a page of items.
// GET /v1/items?limit=&offset=
func (h *ItemHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", middleware.GetRequestID(c))
		return
	}

	items, err := h.itemService.List(c.Request.Context(), q.Limit, q.Offset)
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}

	response.Page(c, dto.NewItemResponses(items), usecase.PageLimit(q.Limit), q.Offset)
}

// GET /v1/items/:id
func (h *ItemHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	item, err := h.itemService.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}

	response.OK(c, dto.NewItemResponse(item))
}

// POST /v1/items
func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", middleware.GetRequestID(c))
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}

	response.Created(c, dto.NewItemResponse(item))
}

// PUT /v1/items/:id
func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", middleware.GetRequestID(c))
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), id, req.ToInput())
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}

	response.OK(c, dto.NewItemResponse(item))
}

// DELETE /v1/items/:id
func (h *ItemHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}

	response.NoContent(c)
}

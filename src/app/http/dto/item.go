package dto

import (
	"time"

	"fastai/src/core/domain"
)

// ItemRequest is the payload for creating or replacing an item.
type ItemRequest struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Cost        *float64 `json:"cost" binding:"omitempty,gte=0"`
	Description *string  `json:"description" binding:"omitempty,max=255"`
	Quantity    int      `json:"quantity" binding:"gte=0"`
}

// ToInput converts the request into the domain input.
func (r ItemRequest) ToInput() domain.ItemInput {
	return domain.ItemInput{
		Name:        r.Name,
		Cost:        r.Cost,
		Description: r.Description,
		Quantity:    r.Quantity,
	}
}

// ListQuery holds paging parameters for list endpoints.
type ListQuery struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// ItemResponse is the public view of an item.
type ItemResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Cost        *float64  `json:"cost"`
	Description *string   `json:"description"`
	Quantity    int       `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewItemResponse(it *domain.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Cost:        it.Cost,
		Description: it.Description,
		Quantity:    it.Quantity,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

func NewItemResponses(items []domain.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, NewItemResponse(&items[i]))
	}
	return out
}

package dto

import (
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/models"
)

type CreateCategoryRequest struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Icon  *string `json:"icon,omitempty"`
	Color *string `json:"color,omitempty"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name,omitempty"`
	Type  *string `json:"type,omitempty"`
	Icon  *string `json:"icon,omitempty"`
	Color *string `json:"color,omitempty"`
}

// CategoryScope narrows a category listing to system, own or both.
type CategoryScope string

const (
	ScopeAll    CategoryScope = ""
	ScopeSystem CategoryScope = "system"
	ScopeMine   CategoryScope = "mine"
)

type CategoryQuery struct {
	Type   *string
	Search *string
	Scope  CategoryScope
}

type CategoryListItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Icon     *string `json:"icon"`
	Color    *string `json:"color"`
	IsSystem bool    `json:"isSystemCategory"`
}

type CategoryDetail struct {
	CategoryListItem
	IsActive         bool      `json:"isActive"`
	TransactionCount int       `json:"transactionCount"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func NewCategoryListItem(c *models.Category) CategoryListItem {
	return CategoryListItem{
		ID:       c.ID,
		Name:     c.Name,
		Type:     c.Type,
		Icon:     c.Icon,
		Color:    c.Color,
		IsSystem: c.IsSystem(),
	}
}

func NewCategoryList(cats []*models.Category) []CategoryListItem {
	out := make([]CategoryListItem, 0, len(cats))
	for _, c := range cats {
		out = append(out, NewCategoryListItem(c))
	}
	return out
}

func NewCategoryDetail(c *models.Category, txCount int) CategoryDetail {
	return CategoryDetail{
		CategoryListItem: NewCategoryListItem(c),
		IsActive:         c.IsActive,
		TransactionCount: txCount,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

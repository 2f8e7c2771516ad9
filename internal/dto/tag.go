package dto

import (
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/models"
)

type TagRequest struct {
	Name string `json:"name"`
}

type TagOutput struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	TransactionCount int       `json:"transactionCount"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func NewTagOutput(t *models.Tag) TagOutput {
	return TagOutput{
		ID:               t.ID,
		Name:             t.Name,
		TransactionCount: t.TransactionCount,
		IsActive:         t.IsActive,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func NewTagList(tags []*models.Tag) []TagOutput {
	out := make([]TagOutput, 0, len(tags))
	for _, t := range tags {
		out = append(out, NewTagOutput(t))
	}
	return out
}

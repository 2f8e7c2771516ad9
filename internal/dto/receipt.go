package dto

import (
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/models"
)

// CreateReceiptRequest registers a file that was already uploaded elsewhere.
type CreateReceiptRequest struct {
	FilePath string `json:"file"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	MimeType string `json:"mimeType"`
}

type ReceiptOutput struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction"`
	FilePath      string    `json:"file"`
	FileName      string    `json:"fileName"`
	FileSize      int64     `json:"fileSize"`
	MimeType      string    `json:"mimeType"`
	CreatedAt     time.Time `json:"createdAt"`
}

func NewReceiptOutput(r *models.Receipt) ReceiptOutput {
	return ReceiptOutput{
		ID:            r.ID,
		TransactionID: r.TransactionID,
		FilePath:      r.FilePath,
		FileName:      r.FileName,
		FileSize:      r.FileSize,
		MimeType:      r.MimeType,
		CreatedAt:     r.CreatedAt,
	}
}

func NewReceiptList(rs []*models.Receipt) []ReceiptOutput {
	out := make([]ReceiptOutput, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewReceiptOutput(r))
	}
	return out
}

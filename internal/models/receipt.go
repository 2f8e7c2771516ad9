package models

type Receipt struct {
	Base
	TransactionID string
	FilePath      string
	FileName      string
	FileSize      int64
	MimeType      string
}

package models

type Tag struct {
	Base
	UserID           string
	Name             string
	TransactionCount int
}

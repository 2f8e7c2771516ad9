package models

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

type Category struct {
	Base
	// UserID is nil for system categories.
	UserID *string
	Name   string
	Type   string
	Icon   *string
	Color  *string
}

func (c *Category) IsSystem() bool {
	return c.UserID == nil
}

// VisibleTo reports whether uid may reference the category.
func (c *Category) VisibleTo(uid string) bool {
	return c.UserID == nil || *c.UserID == uid
}

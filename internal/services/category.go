package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/ledger"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/pkg/helpers"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

type categoryCSStore interface {
	Create(ctx context.Context, c *models.Category) error
	EnsureSystem(ctx context.Context, c *models.Category) (bool, error)
	Get(ctx context.Context, id string) (*models.Category, error)
	List(ctx context.Context, uid string, q dto.CategoryQuery) ([]*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	SetActive(ctx context.Context, id string, active bool) error
	Usage(ctx context.Context, id, uid string, includeDeleted bool) (transactions, budgets int, err error)
}

type categoryService struct {
	categories categoryCSStore
}

func NewCategoryService(categories categoryCSStore) *categoryService {
	return &categoryService{categories: categories}
}

type defaultCategory struct {
	name, typ, icon, color string
}

// defaultCategories are the system categories every user can reference.
var defaultCategories = []defaultCategory{
	{"Salary", models.TypeIncome, "briefcase", "#4CAF50"},
	{"Freelance", models.TypeIncome, "laptop", "#8BC34A"},
	{"Investment", models.TypeIncome, "trending-up", "#009688"},
	{"Gift", models.TypeIncome, "gift", "#00BCD4"},
	{"Business", models.TypeIncome, "briefcase", "#03A9F4"},
	{"Other Income", models.TypeIncome, "plus-circle", "#2196F3"},
	{"Food & Dining", models.TypeExpense, "coffee", "#F44336"},
	{"Transportation", models.TypeExpense, "car", "#E91E63"},
	{"Housing", models.TypeExpense, "home", "#9C27B0"},
	{"Utilities", models.TypeExpense, "zap", "#673AB7"},
	{"Healthcare", models.TypeExpense, "heart", "#3F51B5"},
	{"Entertainment", models.TypeExpense, "film", "#FF5722"},
	{"Shopping", models.TypeExpense, "shopping-bag", "#FF9800"},
	{"Education", models.TypeExpense, "book", "#FFC107"},
	{"Personal Care", models.TypeExpense, "user", "#FFEB3B"},
	{"Insurance", models.TypeExpense, "shield", "#CDDC39"},
	{"Debt Payment", models.TypeExpense, "credit-card", "#795548"},
	{"Other Expense", models.TypeExpense, "more-horizontal", "#607D8B"},
}

func (s *categoryService) ListCategories(ctx context.Context, uid string, q dto.CategoryQuery) ([]*models.Category, error) {
	return s.categories.List(ctx, uid, q)
}

// GetCategory returns a system category or one of uid's own.
func (s *categoryService) GetCategory(ctx context.Context, uid, id string) (dto.CategoryDetail, error) {
	c, err := s.categories.Get(ctx, id)
	if err != nil {
		return dto.CategoryDetail{}, err
	}
	if !c.VisibleTo(uid) || !c.IsActive {
		return dto.CategoryDetail{}, errs.NewNotFoundError("category not found")
	}
	count, _, err := s.categories.Usage(ctx, id, uid, false)
	if err != nil {
		return dto.CategoryDetail{}, err
	}
	return dto.NewCategoryDetail(c, count), nil
}

func (s *categoryService) CreateCategory(ctx context.Context, uid string, req dto.CreateCategoryRequest) (*models.Category, error) {
	c, err := buildCategory(req)
	if err != nil {
		return nil, err
	}
	c.UserID = &uid

	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("category created", "category_id", c.ID, "type", c.Type)
	return c, nil
}

func buildCategory(req dto.CreateCategoryRequest) (*models.Category, error) {
	name, err := ledger.NormalizeName("name", req.Name)
	if err != nil {
		return nil, err
	}
	if err := ledger.ValidateEntryType("type", req.Type); err != nil {
		return nil, err
	}
	color, err := ledger.NormalizeColor(req.Color)
	if err != nil {
		return nil, err
	}
	c := &models.Category{
		Name:  name,
		Type:  req.Type,
		Icon:  helpers.TrimmedOrNil(req.Icon),
		Color: color,
	}
	c.ID = uuid.New().String()
	c.IsActive = true
	return c, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, uid, id string, req dto.UpdateCategoryRequest) (*models.Category, error) {
	c, err := s.mutable(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, errs.NewNotFoundError("category not found")
	}

	if req.Name != nil {
		if c.Name, err = ledger.NormalizeName("name", *req.Name); err != nil {
			return nil, err
		}
	}
	if req.Type != nil && *req.Type != c.Type {
		if err := ledger.ValidateEntryType("type", *req.Type); err != nil {
			return nil, err
		}
		if err := s.checkTypeChange(ctx, c, uid); err != nil {
			logger.FromContext(ctx).Warn("category type change rejected", "category_id", id, "error", err)
			return nil, err
		}
		c.Type = *req.Type
	}
	if req.Icon != nil {
		c.Icon = helpers.TrimmedOrNil(req.Icon)
	}
	if req.Color != nil {
		if c.Color, err = ledger.NormalizeColor(req.Color); err != nil {
			return nil, err
		}
	}

	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("category updated", "category_id", id)
	return c, nil
}

// checkTypeChange keeps referencing transactions, and budgets of expense
// categories, consistent with the category type.
func (s *categoryService) checkTypeChange(ctx context.Context, c *models.Category, uid string) error {
	// soft-deleted rows count too
	txCount, budgetCount, err := s.categories.Usage(ctx, c.ID, uid, true)
	if err != nil {
		return err
	}
	if txCount > 0 {
		return errs.NewFieldValidationError("type", "Cannot change category type while transactions use this category.")
	}
	if c.Type == models.TypeExpense && budgetCount > 0 {
		return errs.NewFieldValidationError("type", "Cannot change category type while budgets use this category.")
	}
	return nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, uid, id string) error {
	c, err := s.mutable(ctx, uid, id)
	if err != nil {
		return err
	}
	if !c.IsActive {
		return errs.NewNotFoundError("category not found")
	}
	if err := s.categories.SetActive(ctx, id, false); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("category deleted", "category_id", id)
	return nil
}

func (s *categoryService) RestoreCategory(ctx context.Context, uid, id string) (*models.Category, error) {
	c, err := s.mutable(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if c.IsActive {
		return nil, errs.NewConflictError("Category is already active.")
	}
	if err := s.categories.SetActive(ctx, id, true); err != nil {
		return nil, err
	}
	c.IsActive = true
	logger.FromContext(ctx).Info("category restored", "category_id", id)
	return c, nil
}

// mutable loads a category uid may change: system categories and other
// users' categories are refused.
func (s *categoryService) mutable(ctx context.Context, uid, id string) (*models.Category, error) {
	c, err := s.categories.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.IsSystem() {
		return nil, errs.NewPermissionError("System categories cannot be modified.")
	}
	if *c.UserID != uid {
		return nil, errs.NewPermissionError("You do not have permission to modify this category.")
	}
	return c, nil
}

// SeedSystemCategories creates any missing default system category.
func (s *categoryService) SeedSystemCategories(ctx context.Context) (created, skipped int, err error) {
	log := logger.FromContext(ctx)
	for _, d := range defaultCategories {
		c := &models.Category{
			Name:  d.name,
			Type:  d.typ,
			Icon:  helpers.Ptr(d.icon),
			Color: helpers.Ptr(strings.ToUpper(d.color)),
		}
		c.ID = uuid.New().String()
		c.IsActive = true

		ok, err := s.categories.EnsureSystem(ctx, c)
		if err != nil {
			return created, skipped, err
		}
		if ok {
			created++
			log.Debug("system category created", "name", d.name, "type", d.typ)
		} else {
			skipped++
		}
	}
	log.Info("system categories seeded", "created", created, "skipped", skipped)
	return created, skipped, nil
}

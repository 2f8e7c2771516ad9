package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/ledger"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

// evaluationConcurrency bounds the spent queries issued per request.
const evaluationConcurrency = 4

type budgetBSStore interface {
	Create(ctx context.Context, b *models.Budget) error
	Get(ctx context.Context, id string) (*models.Budget, error)
	List(ctx context.Context, uid string, q dto.BudgetQuery) ([]*models.Budget, error)
	Update(ctx context.Context, b *models.Budget) error
	SetActive(ctx context.Context, id string, active bool) error
	Spent(ctx context.Context, b *models.Budget) (decimal.Decimal, error)
}

type categoryBSReader interface {
	Get(ctx context.Context, id string) (*models.Category, error)
}

type transactionBSReader interface {
	List(ctx context.Context, uid string, q dto.TransactionQuery) ([]*models.TransactionDetail, error)
}

type budgetService struct {
	budgets    budgetBSStore
	categories categoryBSReader
	txs        transactionBSReader
	clockNow   func() time.Time
}

func NewBudgetService(budgets budgetBSStore, categories categoryBSReader, txs transactionBSReader) *budgetService {
	return &budgetService{
		budgets:    budgets,
		categories: categories,
		txs:        txs,
		clockNow:   utcNow,
	}
}

// ListBudgets evaluates every active budget of uid. An unknown status
// filter is ignored.
func (s *budgetService) ListBudgets(ctx context.Context, uid string, q dto.BudgetQuery) ([]dto.EvaluatedBudget, error) {
	ebs, err := s.evaluated(ctx, uid, q)
	if err != nil {
		return nil, err
	}
	if q.Status == nil || !ledger.ValidBudgetStatus(*q.Status) {
		return ebs, nil
	}
	out := ebs[:0]
	for _, eb := range ebs {
		if eb.Evaluation.Status == *q.Status {
			out = append(out, eb)
		}
	}
	return out, nil
}

func (s *budgetService) GetBudget(ctx context.Context, uid, id string) (dto.BudgetDetail, error) {
	b, err := s.budgets.Get(ctx, id)
	if err != nil {
		return dto.BudgetDetail{}, err
	}
	if err := checkReadable(b.UserID, uid, b.IsActive, "budget"); err != nil {
		return dto.BudgetDetail{}, err
	}
	eb, err := s.evaluate(ctx, b)
	if err != nil {
		return dto.BudgetDetail{}, err
	}

	expense := models.TypeExpense
	recent, err := s.txs.List(ctx, uid, dto.TransactionQuery{
		Type:       &expense,
		CategoryID: &b.CategoryID,
		DateFrom:   &b.StartDate,
		DateTo:     b.EndDate,
		Limit:      recentTransactionLimit,
	})
	if err != nil {
		return dto.BudgetDetail{}, err
	}
	return dto.NewBudgetDetail(eb, recent), nil
}

func (s *budgetService) CreateBudget(ctx context.Context, uid string, req dto.CreateBudgetRequest) (dto.EvaluatedBudget, error) {
	log := logger.FromContext(ctx)

	start, err := ledger.ParseDate("startDate", req.StartDate)
	if err != nil {
		return dto.EvaluatedBudget{}, err
	}
	end, err := parseOptionalDate("endDate", req.EndDate)
	if err != nil {
		return dto.EvaluatedBudget{}, err
	}
	b := &models.Budget{
		UserID:     uid,
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		PeriodType: req.PeriodType,
		StartDate:  start,
		EndDate:    end,
	}
	b.ID = uuid.New().String()
	b.IsActive = true

	if err := s.validate(ctx, uid, b); err != nil {
		log.Warn("budget rejected", "error", err)
		return dto.EvaluatedBudget{}, err
	}
	if err := s.budgets.Create(ctx, b); err != nil {
		return dto.EvaluatedBudget{}, err
	}
	log.Info("budget created", "budget_id", b.ID, "category_id", b.CategoryID, "amount", b.Amount)
	return s.reload(ctx, b.ID)
}

func (s *budgetService) UpdateBudget(ctx context.Context, uid, id string, req dto.UpdateBudgetRequest) (dto.EvaluatedBudget, error) {
	b, err := s.budgets.Get(ctx, id)
	if err != nil {
		return dto.EvaluatedBudget{}, err
	}
	if err := checkWritable(b.UserID, uid, b.IsActive, "budget"); err != nil {
		return dto.EvaluatedBudget{}, err
	}

	if req.CategoryID != nil {
		b.CategoryID = *req.CategoryID
	}
	if req.Amount != nil {
		b.Amount = *req.Amount
	}
	if req.PeriodType != nil {
		b.PeriodType = *req.PeriodType
	}
	if req.StartDate != nil {
		if b.StartDate, err = ledger.ParseDate("startDate", *req.StartDate); err != nil {
			return dto.EvaluatedBudget{}, err
		}
	}
	if req.EndDate != nil {
		if b.EndDate, err = parseOptionalDate("endDate", req.EndDate); err != nil {
			return dto.EvaluatedBudget{}, err
		}
	}

	if err := s.validate(ctx, uid, b); err != nil {
		logger.FromContext(ctx).Warn("budget update rejected", "budget_id", id, "error", err)
		return dto.EvaluatedBudget{}, err
	}
	if err := s.budgets.Update(ctx, b); err != nil {
		return dto.EvaluatedBudget{}, err
	}
	logger.FromContext(ctx).Info("budget updated", "budget_id", id)
	return s.reload(ctx, id)
}

func (s *budgetService) DeleteBudget(ctx context.Context, uid, id string) error {
	b, err := s.budgets.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := checkWritable(b.UserID, uid, b.IsActive, "budget"); err != nil {
		return err
	}
	if err := s.budgets.SetActive(ctx, id, false); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("budget deleted", "budget_id", id)
	return nil
}

func (s *budgetService) RestoreBudget(ctx context.Context, uid, id string) (dto.EvaluatedBudget, error) {
	b, err := s.budgets.Get(ctx, id)
	if err != nil {
		return dto.EvaluatedBudget{}, err
	}
	if err := checkRestorable(b.UserID, uid, b.IsActive, "budget"); err != nil {
		return dto.EvaluatedBudget{}, err
	}
	if err := s.checkCategory(ctx, uid, b.CategoryID); err != nil {
		logger.FromContext(ctx).Warn("budget restore rejected", "budget_id", id, "error", err)
		return dto.EvaluatedBudget{}, err
	}
	if err := s.budgets.SetActive(ctx, id, true); err != nil {
		return dto.EvaluatedBudget{}, err
	}
	logger.FromContext(ctx).Info("budget restored", "budget_id", id)
	return s.reload(ctx, id)
}

func (s *budgetService) Summary(ctx context.Context, uid string) (dto.BudgetSummary, error) {
	ebs, err := s.evaluated(ctx, uid, dto.BudgetQuery{})
	if err != nil {
		return dto.BudgetSummary{}, err
	}
	return dto.NewBudgetSummary(ebs), nil
}

// Exceeded lists budgets whose spending is strictly above the amount.
func (s *budgetService) Exceeded(ctx context.Context, uid string) ([]dto.EvaluatedBudget, error) {
	ebs, err := s.evaluated(ctx, uid, dto.BudgetQuery{})
	if err != nil {
		return nil, err
	}
	out := ebs[:0]
	for _, eb := range ebs {
		if eb.Evaluation.Exceeded {
			out = append(out, eb)
		}
	}
	return out, nil
}

// CurrentMonth lists monthly budgets that start in the current UTC month.
func (s *budgetService) CurrentMonth(ctx context.Context, uid string) ([]dto.EvaluatedBudget, error) {
	monthly := models.PeriodMonthly
	ebs, err := s.evaluated(ctx, uid, dto.BudgetQuery{PeriodType: &monthly})
	if err != nil {
		return nil, err
	}
	now := s.clockNow()
	out := ebs[:0]
	for _, eb := range ebs {
		st := eb.Budget.StartDate
		if st.Year() == now.Year() && st.Month() == now.Month() {
			out = append(out, eb)
		}
	}
	return out, nil
}

func (s *budgetService) CategoryAnalysis(ctx context.Context, uid string) ([]dto.CategoryAnalysisItem, error) {
	ebs, err := s.evaluated(ctx, uid, dto.BudgetQuery{})
	if err != nil {
		return nil, err
	}
	return dto.NewCategoryAnalysis(ebs), nil
}

// evaluated lists budgets and computes their spending concurrently. The
// result keeps the store order.
func (s *budgetService) evaluated(ctx context.Context, uid string, q dto.BudgetQuery) ([]dto.EvaluatedBudget, error) {
	budgets, err := s.budgets.List(ctx, uid, q)
	if err != nil {
		return nil, err
	}

	out := make([]dto.EvaluatedBudget, len(budgets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(evaluationConcurrency)
	for i, b := range budgets {
		g.Go(func() error {
			eb, err := s.evaluate(gctx, b)
			if err != nil {
				return err
			}
			out[i] = eb
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.FromContext(ctx).Error("budget evaluation failed", "error", err)
		return nil, err
	}
	return out, nil
}

func (s *budgetService) evaluate(ctx context.Context, b *models.Budget) (dto.EvaluatedBudget, error) {
	spent, err := s.budgets.Spent(ctx, b)
	if err != nil {
		return dto.EvaluatedBudget{}, err
	}
	return dto.EvaluatedBudget{Budget: b, Evaluation: ledger.EvaluateBudget(b, spent, s.clockNow())}, nil
}

func (s *budgetService) reload(ctx context.Context, id string) (dto.EvaluatedBudget, error) {
	b, err := s.budgets.Get(ctx, id)
	if err != nil {
		return dto.EvaluatedBudget{}, err
	}
	return s.evaluate(ctx, b)
}

func (s *budgetService) validate(ctx context.Context, uid string, b *models.Budget) error {
	if err := ledger.ValidateAmount("amount", b.Amount); err != nil {
		return err
	}
	if err := ledger.ValidatePeriodType(b.PeriodType); err != nil {
		return err
	}
	if err := ledger.ValidateBudgetWindow(b.StartDate, b.EndDate); err != nil {
		return err
	}
	return s.checkCategory(ctx, uid, b.CategoryID)
}

// checkCategory requires an active expense category visible to uid.
func (s *budgetService) checkCategory(ctx context.Context, uid, categoryID string) error {
	if strings.TrimSpace(categoryID) == "" {
		return errs.NewFieldValidationError("category", "category is required.")
	}

	cat, err := s.categories.Get(ctx, categoryID)
	if isNotFound(err) {
		return errs.NewFieldValidationError("category", "Category does not exist.")
	}
	if err != nil {
		return err
	}
	if !cat.VisibleTo(uid) {
		return errs.NewFieldValidationError("category", "You can only use your own categories or system categories.")
	}
	if !cat.IsActive {
		return errs.NewFieldValidationError("category", "Category is inactive.")
	}
	if cat.Type != models.TypeExpense {
		return errs.NewFieldValidationError("category", "Budgets can only be created for expense categories.")
	}
	return nil
}

// parseOptionalDate treats a missing or blank value as no date.
func parseOptionalDate(field string, v *string) (*time.Time, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	t, err := ledger.ParseDate(field, *v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

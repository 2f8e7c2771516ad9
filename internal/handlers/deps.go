package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	UserSvc         UserService
	AccountSvc      AccountService
	CategorySvc     CategoryService
	TagSvc          TagService
	TransactionSvc  TransactionService
	ReceiptSvc      ReceiptService
	BudgetSvc       BudgetService
}

type UserService interface {
	CreateUser(ctx context.Context, uid, email, first, last string) (*models.User, error)
	GetUser(ctx context.Context, uid string) (*models.User, error)
	UpdateProfile(ctx context.Context, uid string, req dto.UpdateProfileRequest) (*models.User, error)
}

type AccountService interface {
	ListAccounts(ctx context.Context, uid string, q dto.AccountQuery) ([]*models.Account, error)
	ListByType(ctx context.Context, uid, accountType string) ([]*models.Account, error)
	GetAccount(ctx context.Context, uid, id string) (dto.AccountDetail, error)
	CreateAccount(ctx context.Context, uid string, req dto.CreateAccountRequest) (*models.Account, error)
	UpdateAccount(ctx context.Context, uid, id string, req dto.UpdateAccountRequest) (*models.Account, error)
	DeleteAccount(ctx context.Context, uid, id string) error
	RestoreAccount(ctx context.Context, uid, id string) (*models.Account, error)
	Summary(ctx context.Context, uid string) (dto.AccountSummary, error)
}

type CategoryService interface {
	ListCategories(ctx context.Context, uid string, q dto.CategoryQuery) ([]*models.Category, error)
	GetCategory(ctx context.Context, uid, id string) (dto.CategoryDetail, error)
	CreateCategory(ctx context.Context, uid string, req dto.CreateCategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, uid, id string, req dto.UpdateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, uid, id string) error
	RestoreCategory(ctx context.Context, uid, id string) (*models.Category, error)
}

type TagService interface {
	ListTags(ctx context.Context, uid string, search *string) ([]*models.Tag, error)
	GetTag(ctx context.Context, uid, id string) (*models.Tag, error)
	CreateTag(ctx context.Context, uid string, req dto.TagRequest) (*models.Tag, error)
	UpdateTag(ctx context.Context, uid, id string, req dto.TagRequest) (*models.Tag, error)
	DeleteTag(ctx context.Context, uid, id string) error
	RestoreTag(ctx context.Context, uid, id string) (*models.Tag, error)
}

type TransactionService interface {
	ListTransactions(ctx context.Context, uid string, q dto.TransactionQuery) ([]*models.TransactionDetail, error)
	GetTransaction(ctx context.Context, uid, id string) (*models.TransactionDetail, error)
	CreateTransaction(ctx context.Context, uid string, req dto.CreateTransactionRequest) (*models.TransactionDetail, error)
	UpdateTransaction(ctx context.Context, uid, id string, req dto.UpdateTransactionRequest) (*models.TransactionDetail, error)
	DeleteTransaction(ctx context.Context, uid, id string) error
	RestoreTransaction(ctx context.Context, uid, id string) (*models.TransactionDetail, error)
	Stats(ctx context.Context, uid string, from, to *time.Time) (dto.TransactionStats, error)
}

type ReceiptService interface {
	ListReceipts(ctx context.Context, uid, transactionID string) ([]*models.Receipt, error)
	AddReceipt(ctx context.Context, uid, transactionID string, req dto.CreateReceiptRequest) (*models.Receipt, error)
	DeleteReceipt(ctx context.Context, uid, transactionID, receiptID string) error
}

type BudgetService interface {
	ListBudgets(ctx context.Context, uid string, q dto.BudgetQuery) ([]dto.EvaluatedBudget, error)
	GetBudget(ctx context.Context, uid, id string) (dto.BudgetDetail, error)
	CreateBudget(ctx context.Context, uid string, req dto.CreateBudgetRequest) (dto.EvaluatedBudget, error)
	UpdateBudget(ctx context.Context, uid, id string, req dto.UpdateBudgetRequest) (dto.EvaluatedBudget, error)
	DeleteBudget(ctx context.Context, uid, id string) error
	RestoreBudget(ctx context.Context, uid, id string) (dto.EvaluatedBudget, error)
	Summary(ctx context.Context, uid string) (dto.BudgetSummary, error)
	Exceeded(ctx context.Context, uid string) ([]dto.EvaluatedBudget, error)
	CurrentMonth(ctx context.Context, uid string) ([]dto.EvaluatedBudget, error)
	CategoryAnalysis(ctx context.Context, uid string) ([]dto.CategoryAnalysisItem, error)
}

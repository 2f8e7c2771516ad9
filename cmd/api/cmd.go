package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/GregMSThompson/finance-tracker/internal/bootstrap"
	"github.com/GregMSThompson/finance-tracker/internal/config"
	"github.com/GregMSThompson/finance-tracker/internal/handlers"
	"github.com/GregMSThompson/finance-tracker/internal/middleware"
	"github.com/GregMSThompson/finance-tracker/internal/response"
	"github.com/GregMSThompson/finance-tracker/internal/router"
	"github.com/GregMSThompson/finance-tracker/internal/services"
	"github.com/GregMSThompson/finance-tracker/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	err = store.Migrate(context.Background(), bs.DB, bs.Log)
	exitOnError("migrations failed", err, bs.Log)

	// stores
	ustore := store.NewUserStore(bs.Firestore)
	acstore := store.NewAccountStore(bs.DB)
	cstore := store.NewCategoryStore(bs.DB)
	tgstore := store.NewTagStore(bs.DB)
	txstore := store.NewTransactionStore(bs.DB)
	rstore := store.NewReceiptStore(bs.DB)
	bdstore := store.NewBudgetStore(bs.DB)

	// services
	userv := services.NewUserService(ustore, cfg.DefaultCurrency)
	acserv := services.NewAccountService(acstore, txstore, cfg.DefaultCurrency)
	cserv := services.NewCategoryService(cstore)
	tgserv := services.NewTagService(tgstore)
	txserv := services.NewTransactionService(txstore, cstore, acstore, tgstore)
	rserv := services.NewReceiptService(rstore, txstore)
	bdserv := services.NewBudgetService(bdstore, cstore, txstore)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.UserSvc = userv
	deps.AccountSvc = acserv
	deps.CategorySvc = cserv
	deps.TagSvc = tgserv
	deps.TransactionSvc = txserv
	deps.ReceiptSvc = rserv
	deps.BudgetSvc = bdserv

	// middleware
	mw := middleware.NewMiddleware(bs.Firebase, cfg.AuthBypassUID())
	lmw := middleware.NewLoggerMiddleware(bs.Log)

	// router
	r := router.NewRouter(deps, mw.FirebaseAuth, lmw.LoggerMiddleware)
	bs.Log.Info("server starting", "port", cfg.Port)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}

package bootstrap

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GregMSThompson/finance-tracker/internal/config"
	"github.com/GregMSThompson/finance-tracker/internal/store"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	DB        *pgxpool.Pool
	Firestore *firestore.Client
	Firebase  *auth.Client
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	if err = cfg.Validate(); err != nil {
		return bs, err
	}
	bs.DB, err = store.NewPool(applicationCtx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return bs, err
	}
	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	if cfg.AuthBypassUID() == "" {
		bs.Firebase, err = InitFirebase(applicationCtx)
		if err != nil {
			return bs, err
		}
	} else {
		bs.Log.Warn("firebase auth disabled", "dev_uid", cfg.DevUID)
	}

	return bs, nil
}

// RunLedger opens only the Postgres pool, for operator commands.
func RunLedger(cfg *config.Config) (*Bootstrap, error) {
	var err error
	bs := new(Bootstrap)
	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	bs.DB, err = store.NewPool(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns)
	return bs, err
}

func (bs *Bootstrap) Close() {
	if bs.Firestore != nil {
		if err := bs.Firestore.Close(); err != nil {
			bs.Log.Warn("failed to close firestore client", "error", err)
		}
	}
	if bs.DB != nil {
		bs.DB.Close()
	}
}

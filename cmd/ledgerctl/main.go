package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/finance-tracker/internal/bootstrap"
	"github.com/GregMSThompson/finance-tracker/internal/config"
	"github.com/GregMSThompson/finance-tracker/internal/services"
	"github.com/GregMSThompson/finance-tracker/internal/store"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

var (
	bs      *bootstrap.Bootstrap
	rootCmd = &cobra.Command{
		Use:                "ledgerctl",
		Short:              "Operator commands for the finance tracker database",
		PersistentPreRunE:  openLedger,
		PersistentPostRunE: closeLedger,
		SilenceUsage:       true,
	}
)

func init() {
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCategoriesCmd())
	rootCmd.AddCommand(purgeTransactionsCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("received interrupt signal, shutting down")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openLedger(cmd *cobra.Command, _ []string) error {
	cfg := config.New()
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASEURL is required")
	}
	var err error
	bs, err = bootstrap.RunLedger(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	cmd.SetContext(logger.ToContext(cmd.Context(), bs.Log))
	return nil
}

func closeLedger(_ *cobra.Command, _ []string) error {
	if bs != nil {
		bs.Close()
	}
	return nil
}

func migrateCmd() *cobra.Command {
	var status bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if status {
				return store.MigrationStatus(cmd.Context(), bs.DB, bs.Log)
			}
			return store.Migrate(cmd.Context(), bs.DB, bs.Log)
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "print migration status instead of migrating")
	return cmd
}

func seedCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-categories",
		Short: "Create the default system categories that are missing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := services.NewCategoryService(store.NewCategoryStore(bs.DB))
			created, skipped, err := svc.SeedSystemCategories(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "system categories: %d created, %d already present\n", created, skipped)
			return nil
		},
	}
}

func purgeTransactionsCmd() *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "purge-transactions",
		Short: "Permanently remove soft-deleted transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if olderThan <= 0 {
				return errors.New("--older-than must be positive")
			}
			cutoff := time.Now().UTC().Add(-olderThan)
			n, err := store.NewTransactionStore(bs.DB).PurgeInactive(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d transactions deleted before %s\n", n, cutoff.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "only purge transactions deleted longer ago than this")
	return cmd
}

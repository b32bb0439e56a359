package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/natog7/PersonalFinance/internal/auth"
	"github.com/natog7/PersonalFinance/internal/categorize"
	categorizeStore "github.com/natog7/PersonalFinance/internal/categorize/store"
	"github.com/natog7/PersonalFinance/internal/category"
	categoryStore "github.com/natog7/PersonalFinance/internal/category/store"
	"github.com/natog7/PersonalFinance/internal/config"
	"github.com/natog7/PersonalFinance/internal/database"
	"github.com/natog7/PersonalFinance/internal/export"
	apiHttp "github.com/natog7/PersonalFinance/internal/http"
	authHandler "github.com/natog7/PersonalFinance/internal/http/auth"
	categoryHandler "github.com/natog7/PersonalFinance/internal/http/category"
	exportHandler "github.com/natog7/PersonalFinance/internal/http/export"
	importHandler "github.com/natog7/PersonalFinance/internal/http/importcsv"
	txHandler "github.com/natog7/PersonalFinance/internal/http/transaction"
	"github.com/natog7/PersonalFinance/internal/importer"
	"github.com/natog7/PersonalFinance/internal/transaction"
	txStore "github.com/natog7/PersonalFinance/internal/transaction/store"
	userStore "github.com/natog7/PersonalFinance/internal/user/store"
)

func main() {
	// Best effort; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString(), database.Pool{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	tokens := auth.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)

	var (
		transactionService = transaction.NewService(txStore.New(db))
		categoryService    = category.NewService(categoryStore.New(db))
		categorizeService  = categorize.NewService(categorizeStore.New(db))
		exportService      = export.NewService(transactionService)
		authService        = auth.NewService(userStore.New(db),
			auth.NewBcryptHasher(cfg.Auth.BcryptCost), tokens)
	)

	var (
		authH        = authHandler.NewHandler(authService)
		transactionH = txHandler.NewHandler(transactionService)
		categoryH    = categoryHandler.NewHandler(categoryService)
		importH      = importHandler.NewHandler(importer.NewParser(), transactionService, categorizeService)
		exportH      = exportHandler.NewHandler(exportService)
	)

	router := apiHttp.New(tokens, authH, transactionH, categoryH, importH, exportH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alexanderramin/workplan/internal/calc"
	"github.com/alexanderramin/workplan/internal/cli"
	"github.com/alexanderramin/workplan/internal/config"
	"github.com/alexanderramin/workplan/internal/db"
	"github.com/alexanderramin/workplan/internal/repository"
	"github.com/alexanderramin/workplan/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.EnsureDBDir(); err != nil {
		return err
	}
	logger := config.NewLogger(cfg, os.Stderr)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	orgRepo := repository.NewSQLiteOrgRepo(database)
	opRepo := repository.NewSQLiteOperationRepo(database)
	planRepo := repository.NewSQLitePlanRepo(database)
	decisionRepo := repository.NewSQLiteDecisionRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewLogUseCaseObserver(logger)
	engine := calc.NewEngine(calc.DefaultCatalog())

	app := &cli.App{
		Orgs:       service.NewOrgService(orgRepo),
		Operations: service.NewOperationService(opRepo),
		Plans:      service.NewPlanService(planRepo, opRepo, uow, engine, logger, observer),
		Workflow:   service.NewWorkflowService(planRepo, decisionRepo, orgRepo, uow, cfg.OverrideActors, logger, observer),
		Budget:     service.NewBudgetService(opRepo, planRepo),
		Import:     service.NewImportService(uow, logger, observer),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Debug().Str("db", cfg.DBPath).Strs("override_actors", cfg.OverrideActors).Msg("Starting workplan")
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alexanderramin/planportal/internal/cli"
	"github.com/alexanderramin/planportal/internal/config"
	"github.com/alexanderramin/planportal/internal/db"
	"github.com/alexanderramin/planportal/internal/repository"
	"github.com/alexanderramin/planportal/internal/service"
	"github.com/mattn/go-isatty"
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

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Workflow warnings always reach stderr; use-case records only when enabled.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	var observers []service.UseCaseObserver
	if cfg.Log.UseCases {
		observers = append(observers, service.NewSlogUseCaseObserver(logger))
	}

	// Wire repositories
	planRepo := repository.NewSQLitePlanRepo(database)
	notificationRepo := repository.NewSQLiteNotificationRepo(database)
	userRepo := repository.NewSQLiteUserRepo(database)

	// Wire unit of work for transactional workflow mode
	uow := db.NewSQLiteUnitOfWork(database)

	retry := service.RetryPolicy{
		MaxRetries: cfg.Storage.MaxRetries,
		Backoff:    cfg.Storage.Backoff(),
		Timeout:    cfg.Storage.Timeout(),
	}
	subs := cfg.Subscriptions()

	app := &cli.App{
		Users: service.NewUserService(userRepo, subs),
		Plans: service.NewPlanService(planRepo, userRepo, service.PlanOptions{
			AllowApprovedEdits: cfg.Workflow.AllowResubmitApproved,
			Retry:              retry,
			Subscriptions:      subs,
		}, observers...),
		Workflow: service.NewWorkflowService(planRepo, notificationRepo, userRepo, uow, service.WorkflowOptions{
			PrincipalToken:        cfg.PrincipalToken,
			Subscriptions:         subs,
			LinkPrefix:            cfg.LinkPrefix,
			Consistency:           service.Consistency(cfg.Workflow.Consistency),
			AllowResubmitApproved: cfg.Workflow.AllowResubmitApproved,
			Dedupe:                cfg.Notifications.Dedupe,
			Retry:                 retry,
			Logger:                logger,
		}, observers...),
		Inbox: service.NewInboxService(notificationRepo, userRepo, service.InboxOptions{
			Subscriptions: subs,
			LinkPrefix:    cfg.LinkPrefix,
		}, observers...),
	}

	// Prompts and the interactive inbox need a terminal on stdin.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

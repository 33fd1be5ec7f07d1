package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JasvinK/Student-Paycheck-Buddy/internal/amqp"
	"github.com/JasvinK/Student-Paycheck-Buddy/internal/cli"
	"github.com/JasvinK/Student-Paycheck-Buddy/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting reminder-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Without AMQP the scan still runs and reminders land in the log.
	var publisher services.ReminderPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.ReminderQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
	} else {
		logger.Info("AMQP disabled - reminders will be logged only")
	}

	processor := services.NewReminderProcessor(repo, publisher, cfg.ReminderLookahead)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	if _, err := processor.ProcessDueBills(ctx); err != nil {
		logger.Error("Initial reminder scan failed", "error", err)
	}

	ticker := time.NewTicker(cfg.ReminderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Worker shutdown complete")
			return
		case <-ticker.C:
			if _, err := processor.ProcessDueBills(ctx); err != nil {
				logger.Error("Reminder scan failed", "error", err)
			}
		}
	}
}

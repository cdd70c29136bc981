// Package app initializes and holds long-lived application services, acting as a dependency injection container.
package app

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/marchworks/leadscout/internal/logging"
	"github.com/marchworks/leadscout/internal/scout"
	"github.com/marchworks/leadscout/internal/sink"
)

// App holds the shared, long-lived services for the application: the logger
// and the configured output sinks. It is initialized once at startup and
// handed to the commands through the cobra context.
type App struct {
	logger     *zap.Logger
	sinks      []scout.Sink
	placeStore *sink.PlaceStore
}

// GetLogger returns the shared zap logger instance.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// GetSinks returns the output sinks enabled by configuration. The list may
// be empty; the JSON snapshot is managed separately by the pipeline.
func (a *App) GetSinks() []scout.Sink {
	return a.sinks
}

// NewApp creates and initializes an App from the Viper configuration.
// Sinks are opt-in: the Sheets sink activates when a spreadsheet ID is
// configured, the Postgres sink when a DSN is. It fails fast if an enabled
// sink cannot be initialized.
func NewApp(ctx context.Context) (*App, error) {
	logger, err := logging.New(logging.Config{
		Development: viper.GetBool("logging.development"),
		Level:       viper.GetString("logging.level"),
	})
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	a := &App{logger: logger}

	if spreadsheetID := viper.GetString("sheets.spreadsheet_id"); spreadsheetID != "" {
		sheetsSink, err := sink.NewSheetsSink(ctx, sink.SheetsConfig{
			SpreadsheetID:   spreadsheetID,
			CredentialsFile: viper.GetString("sheets.credentials_file"),
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("initialize sheets sink: %w", err)
		}
		logger.Info("Sheets sink enabled", zap.String("spreadsheet_id", spreadsheetID))
		a.sinks = append(a.sinks, sheetsSink)
	}

	if dsn := viper.GetString("postgres.dsn"); dsn != "" {
		store, err := sink.NewPlaceStore(ctx, sink.PostgresConfig{
			DSN:   dsn,
			Table: viper.GetString("postgres.table"),
		})
		if err != nil {
			return nil, fmt.Errorf("initialize postgres sink: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("prepare postgres schema: %w", err)
		}
		logger.Info("Postgres sink enabled", zap.String("table", viper.GetString("postgres.table")))
		a.placeStore = store
		a.sinks = append(a.sinks, store)
	}

	return a, nil
}

// Close shuts down the services in the App container. It is called by a
// Cobra hook after the command finishes execution.
func (a *App) Close() {
	if a.placeStore != nil {
		a.placeStore.Close()
	}
	// Best-effort flush; stderr may not be syncable.
	_ = a.logger.Sync()
}

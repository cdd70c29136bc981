package sink

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/marchworks/leadscout/internal/scout"
)

// SheetsConfig holds the Google Sheets destination parameters.
type SheetsConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// SheetsSink writes each bucket partition into its own worksheet tab.
// Replace mode clears a tab and rewrites header plus rows; append mode adds
// rows after the existing ones, writing the header only when the tab is
// still empty.
type SheetsSink struct {
	svc           *sheets.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewSheetsSink builds a sink backed by the Sheets API. Extra client options
// are applied after the defaults so tests can point the service at a fake
// endpoint.
func NewSheetsSink(ctx context.Context, cfg SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*SheetsSink, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets.spreadsheet_id is required")
	}
	clientOpts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	clientOpts = append(clientOpts, opts...)
	svc, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsSink{svc: svc, spreadsheetID: cfg.SpreadsheetID, logger: logger}, nil
}

// Name identifies the sink in logs.
func (s *SheetsSink) Name() string { return "sheets" }

// Write pushes every partition of the batch into its worksheet.
func (s *SheetsSink) Write(ctx context.Context, batch scout.Batch) error {
	existing, err := s.worksheetTitles(ctx)
	if err != nil {
		return err
	}
	for _, part := range batch.Partitions {
		tab := tabNames[part.Bucket]
		if tab == "" {
			return fmt.Errorf("no worksheet mapped for bucket %q", part.Bucket)
		}
		if !existing[tab] {
			if err := s.addWorksheet(ctx, tab); err != nil {
				return err
			}
			existing[tab] = true
		}
		rows := make([][]any, 0, len(part.Places))
		for _, c := range part.Places {
			rows = append(rows, sheetRow(batch.Region, c))
		}
		if batch.Append {
			err = s.appendRows(ctx, tab, rows)
		} else {
			err = s.replaceRows(ctx, tab, rows)
		}
		if err != nil {
			return err
		}
		s.logger.Info("Worksheet updated",
			zap.String("tab", tab),
			zap.Int("rows", len(rows)),
			zap.Bool("append", batch.Append),
		)
	}
	return nil
}

func (s *SheetsSink) worksheetTitles(ctx context.Context) (map[string]bool, error) {
	doc, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet: %w", err)
	}
	titles := make(map[string]bool, len(doc.Sheets))
	for _, sh := range doc.Sheets {
		if sh.Properties != nil {
			titles[sh.Properties.Title] = true
		}
	}
	return titles, nil
}

func (s *SheetsSink) addWorksheet(ctx context.Context, title string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: title,
					GridProperties: &sheets.GridProperties{
						RowCount:    1000,
						ColumnCount: 25,
					},
				},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add worksheet %q: %w", title, err)
	}
	return nil
}

func (s *SheetsSink) replaceRows(ctx context.Context, tab string, rows [][]any) error {
	rng := fmt.Sprintf("'%s'!A1", tab)
	if _, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear worksheet %q: %w", tab, err)
	}
	values := append([][]any{headerRow()}, rows...)
	vr := &sheets.ValueRange{Values: values}
	if _, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng, vr).ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update worksheet %q: %w", tab, err)
	}
	return nil
}

func (s *SheetsSink) appendRows(ctx context.Context, tab string, rows [][]any) error {
	rng := fmt.Sprintf("'%s'!A1", tab)
	existing, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read worksheet %q: %w", tab, err)
	}
	if len(existing.Values) == 0 {
		return s.replaceRows(ctx, tab, rows)
	}
	if len(rows) == 0 {
		return nil
	}
	vr := &sheets.ValueRange{Values: rows}
	if _, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("append to worksheet %q: %w", tab, err)
	}
	return nil
}

func headerRow() []any {
	row := make([]any, len(sheetHeader))
	for i, col := range sheetHeader {
		row[i] = col
	}
	return row
}

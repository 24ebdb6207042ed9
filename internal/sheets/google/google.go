// Package google exports ledger rows to a Google Sheets spreadsheet using a
// service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"lupa/internal/core"
	"lupa/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const lastColumn = "K"

var (
	ErrMissingSpreadsheetID = errors.New("missing GOOGLE_SPREADSHEET_ID")
	ErrMissingCredentials   = errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
)

type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *slog.Logger

	mu      sync.Mutex
	sheetID *int64
}

var _ sheets.TransactionExporter = (*Client)(nil)

// New creates a Sheets client. CredentialsFile falls back to
// GOOGLE_APPLICATION_CREDENTIALS when both credential options are empty.
func New(ctx context.Context, opts Options, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, ErrMissingSpreadsheetID
	}
	if opts.SheetName == "" {
		opts.SheetName = "Lancamentos"
	}
	creds, err := credentials(opts)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	logger.InfoContext(ctx, "Google Sheets client ready",
		"spreadsheet_id", opts.SpreadsheetID,
		"sheet", opts.SheetName)

	return &Client{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     opts.SheetName,
		logger:        logger,
	}, nil
}

func credentials(opts Options) ([]byte, error) {
	inline := strings.TrimSpace(opts.CredentialsJSON)
	file := strings.TrimSpace(opts.CredentialsFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, ErrMissingCredentials
	}
}

// ExportTransaction replaces the row whose column A holds tx.ID, or appends a
// new one. An empty sheet gets the header first.
func (c *Client) ExportTransaction(ctx context.Context, tx core.Transaction, methodName string) error {
	ids, err := c.idColumn(ctx)
	if err != nil {
		return err
	}
	row := sheets.RowFor(tx, methodName).Values()

	if idx := rowIndexOf(ids, tx.ID); idx >= 0 {
		vr := &gsheet.ValueRange{Values: [][]any{row}}
		_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rowRange(c.sheetName, idx), vr).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("update row %d: %w", idx+1, err)
		}
		c.logger.DebugContext(ctx, "Sheet row updated", "transaction_id", tx.ID, "row", idx+1)
		return nil
	}

	values := [][]any{row}
	if len(ids) == 0 {
		values = [][]any{headerValues(), row}
	}
	vr := &gsheet.ValueRange{Values: values}
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.sheetName+"!A:"+lastColumn, vr).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	c.logger.DebugContext(ctx, "Sheet row appended", "transaction_id", tx.ID)
	return nil
}

// RemoveTransaction deletes the row for id. A missing row is not an error.
func (c *Client) RemoveTransaction(ctx context.Context, id string) error {
	ids, err := c.idColumn(ctx)
	if err != nil {
		return err
	}
	idx := rowIndexOf(ids, id)
	if idx < 0 {
		return nil
	}
	sheetID, err := c.resolveSheetID(ctx)
	if err != nil {
		return err
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:         sheetID,
					Dimension:       "ROWS",
					StartIndex:      int64(idx),
					EndIndex:        int64(idx + 1),
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d: %w", idx+1, err)
	}
	c.logger.DebugContext(ctx, "Sheet row deleted", "transaction_id", id, "row", idx+1)
	return nil
}

func (c *Client) idColumn(ctx context.Context) ([][]any, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.sheetName+"!A:A").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read id column: %w", err)
	}
	return resp.Values, nil
}

// resolveSheetID looks up the numeric id of the sheet tab once per client.
func (c *Client) resolveSheetID(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sheetID != nil {
		return *c.sheetID, nil
	}
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}
	id, ok := sheetIDByTitle(ss.Sheets, c.sheetName)
	if !ok {
		return 0, fmt.Errorf("sheet %q not found", c.sheetName)
	}
	c.sheetID = &id
	return id, nil
}

func sheetIDByTitle(tabs []*gsheet.Sheet, title string) (int64, bool) {
	for _, s := range tabs {
		if s != nil && s.Properties != nil && s.Properties.Title == title {
			return s.Properties.SheetId, true
		}
	}
	return 0, false
}

// rowIndexOf returns the zero-based row holding id in column A, or -1.
func rowIndexOf(rows [][]any, id string) int {
	if id == "" {
		return -1
	}
	for i, r := range rows {
		if len(r) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(r[0])) == id {
			return i
		}
	}
	return -1
}

func rowRange(sheet string, idx int) string {
	n := idx + 1
	return fmt.Sprintf("%s!A%d:%s%d", sheet, n, lastColumn, n)
}

func headerValues() []any {
	out := make([]any, len(sheets.Header))
	for i, h := range sheets.Header {
		out[i] = h
	}
	return out
}

package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"lifelog/internal/core"
	"lifelog/internal/log"
	ports "lifelog/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// ledgerColumns spans LedgerHeader.
const ledgerColumns = "A:F"

type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountFile string
	ServiceAccountJSON string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

var (
	_ ports.LedgerWriter = (*Client)(nil)
	_ ports.LedgerReader = (*Client)(nil)
)

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentSheets)

	svc, err := newSheetsService(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, cfg, logger), nil
}

// NewWithService wraps an existing service, e.g. one pointed at a test server.
func NewWithService(svc *gsheet.Service, cfg Config, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Discard()
	}
	name := strings.TrimSpace(cfg.SheetName)
	if name == "" {
		name = "Ledger"
	}
	return &Client{
		svc:           svc,
		spreadsheetID: strings.TrimSpace(cfg.SpreadsheetID),
		sheetName:     name,
		logger:        logger,
	}
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Inline JSON wins over a file; GOOGLE_APPLICATION_CREDENTIALS is the last resort.
func newSheetsService(ctx context.Context, cfg Config, logger *log.Logger) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(cfg.ServiceAccountJSON)
	serviceAccountFile := strings.TrimSpace(cfg.ServiceAccountFile)
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		logger.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		logger.InfoContext(ctx, "Reading credentials from file", log.FieldPath, serviceAccountFile)
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	logger.InfoContext(ctx, "Google Sheets service created", "scope", gsheet.SpreadsheetsScope)
	return service, nil
}

// ReplaceLedger clears the ledger columns and writes the rendered rows.
func (c *Client) ReplaceLedger(ctx context.Context, txs []core.Transaction) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!%s", c.sheetName, ledgerColumns)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", clearRange, err)
	}

	rows := ports.LedgerRows(txs)
	values := make([][]any, len(rows))
	for i, r := range rows {
		row := make([]any, len(r))
		for j, v := range r {
			row[j] = v
		}
		values[i] = row
	}

	rng := fmt.Sprintf("%s!A1:F%d", c.sheetName, len(rows))
	vr := &gsheet.ValueRange{Values: values}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}

	c.logger.InfoContext(ctx, "Ledger exported",
		log.FieldOperation, log.OpExport,
		log.FieldCount, len(txs),
		"range", rng)
	return nil
}

// ReadLedger returns the exported rows as strings.
func (c *Client) ReadLedger(ctx context.Context) ([][]string, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!%s", c.sheetName, ledgerColumns)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	out := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		out[i] = toStrings(row)
	}
	return out, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

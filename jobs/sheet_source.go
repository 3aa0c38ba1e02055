package jobs

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/config"
)

// SheetSource reads payment ledger rows from a Google Sheet range using a
// service-account credentials file.
type SheetSource struct {
	cfg config.SheetConfig
}

func NewSheetSource(cfg config.SheetConfig) *SheetSource {
	return &SheetSource{cfg: cfg}
}

func (s *SheetSource) FetchRows(ctx context.Context) ([][]string, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(s.cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create sheets client: %w", err)
	}

	resp, err := svc.Spreadsheets.Values.Get(s.cfg.SpreadsheetID, s.cfg.Range).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet range %s: %w", s.cfg.Range, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

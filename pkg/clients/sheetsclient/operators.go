package sheetsclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/nicetransit/operator-signup/internal/config"
	"github.com/nicetransit/operator-signup/pkg/core/model"
	"github.com/nicetransit/operator-signup/pkg/sheetrows"
)

// operatorRow is one roster row, bound to the sheet's column headers.
type operatorRow struct {
	ID        string `sheet:"ID #"`
	FirstName string `sheet:"First Name"`
	LastName  string `sheet:"Last Name"`
	Status    string `sheet:"Employee Status"`
}

// ListOperators retrieves and parses the operator roster from the configured
// spreadsheet. Every roster row comes back, whatever its status; filtering
// to active operators happens in the roster service.
func (c *Client) ListOperators(ctx context.Context, cfg *config.Config) ([]model.Operator, error) {
	values, err := c.GetValues(ctx, cfg.OperatorSheetID, cfg.OperatorRange())
	if err != nil {
		return nil, fmt.Errorf("failed to get operator data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("operator sheet is empty")
	}

	operators, err := parseOperators(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse operators: %w", err)
	}

	return operators, nil
}

// parseOperators converts raw spreadsheet data into Operator structs. Cell
// padding is trimmed; rows with nothing in any bound column are dropped.
func parseOperators(raw [][]interface{}) ([]model.Operator, error) {
	rows, err := sheetrows.Unmarshal[operatorRow](raw)
	if err != nil {
		return nil, err
	}

	operators := make([]model.Operator, 0, len(rows))
	for _, row := range rows {
		operator := model.Operator{
			ID:        strings.TrimSpace(row.ID),
			FirstName: strings.TrimSpace(row.FirstName),
			LastName:  strings.TrimSpace(row.LastName),
			Status:    strings.TrimSpace(row.Status),
		}

		if operator.ID == "" && operator.FirstName == "" && operator.LastName == "" && operator.Status == "" {
			continue
		}

		operators = append(operators, operator)
	}

	return operators, nil
}

// Package export defines the outbound port for pushing transactions to an
// external spreadsheet.
package export

import (
	"context"

	"github.com/JasvinK/Student-Paycheck-Buddy/internal/core"
)

// TransactionAppender appends one transaction row to the export target and
// returns a reference to the written range.
type TransactionAppender interface {
	Append(ctx context.Context, t core.Transaction) (string, error)
}

package sheets

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

// ErrFetchFailed wraps any failure to load the category table. Callers
// treat the catalog as empty for the rest of the session when they see it.
var ErrFetchFailed = errors.New("category fetch failed")

// Ports for outbound adapters.
type (
	// CatalogReader fetches the raw category table from the remote source.
	CatalogReader interface {
		Categories(ctx context.Context) ([]core.CategoryEntry, error)
	}

	// RecordWriter posts a single composed record to the remote sink and
	// returns an opaque reference. Each leg of a submission is written
	// independently; a failed leg never rolls back its siblings.
	RecordWriter interface {
		Append(ctx context.Context, rec core.TransactionRecord) (ref string, err error)
	}
)

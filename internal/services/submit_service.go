package services

import (
	"context"
	"log/slog"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"
)

// LegResult reports the outcome of posting one record of a submission.
type LegResult struct {
	Index  int
	Record core.TransactionRecord
	Ref    string
	Err    error
}

// SubmitResult collects the per-leg outcomes of one submission.
type SubmitResult struct {
	Legs []LegResult
}

// AllSucceeded reports whether every leg was written.
func (r SubmitResult) AllSucceeded() bool {
	for _, leg := range r.Legs {
		if leg.Err != nil {
			return false
		}
	}
	return true
}

// Failed returns the legs that could not be written.
func (r SubmitResult) Failed() []LegResult {
	var out []LegResult
	for _, leg := range r.Legs {
		if leg.Err != nil {
			out = append(out, leg)
		}
	}
	return out
}

// SubmitService expands one user submission into records and posts each of
// them independently against the record port.
type SubmitService struct {
	writer ports.RecordWriter
}

func NewSubmitService(writer ports.RecordWriter) *SubmitService {
	return &SubmitService{writer: writer}
}

// Submit validates and expands the input, then posts every resulting record.
// A failed leg does not stop the remaining legs; each outcome is reported in
// the result. The returned error is non-nil only when the input itself is
// invalid, in which case nothing was posted.
func (s *SubmitService) Submit(ctx context.Context, in core.TransactionInput) (SubmitResult, error) {
	records, err := core.Compose(in)
	if err != nil {
		return SubmitResult{}, err
	}

	result := SubmitResult{Legs: make([]LegResult, 0, len(records))}
	for i, rec := range records {
		ref, err := s.writer.Append(ctx, rec)
		if err != nil {
			slog.ErrorContext(ctx, "record post failed",
				"leg", i,
				"classification", rec.Classification,
				"error", err)
		}
		result.Legs = append(result.Legs, LegResult{Index: i, Record: rec, Ref: ref, Err: err})
	}
	return result, nil
}

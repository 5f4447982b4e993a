package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income   Classification = "Income"
	Expense  Classification = "Expense"
	Movement Classification = "Movement"
	// Wallet is a pseudo-classification used only to enumerate wallet
	// names in the category table; it is never a transaction type.
	Wallet Classification = "Wallet"
)

type (
	// Classification is the top-level transaction type.
	Classification string

	Date struct {
		time.Time
	}

	// Money is a signed amount in cents.
	Money struct {
		Cents int64
	}

	// CategoryEntry is one row of the remote category table.
	CategoryEntry struct {
		Classification   Classification
		SpecificCategory string
		Subcategory      string
	}

	// TransactionInput is everything the form collects for one submission.
	// Amounts are always non-negative here; signs are applied by Compose.
	TransactionInput struct {
		Date             Date
		Amount           Money
		Classification   Classification
		FeeApplicable    bool
		FeeAmount        Money
		SpecificCategory string
		Subcategory      string
		Description      string
		SourceWallet     string
		EndWallet        string
	}

	// TransactionRecord is one signed leg bound for the remote sink.
	// Empty wallet fields are serialized as null on the wire.
	TransactionRecord struct {
		Date             Date
		Amount           Money
		Classification   Classification
		SpecificCategory string
		Subcategory      string
		Description      string
		SourceWallet     string
		EndWallet        string
	}
)

var (
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrIncompleteSelection = errors.New("no classification selected")
	ErrMissingWallet       = errors.New("missing required wallet")
	ErrEmptyCategory       = errors.New("empty category selection")
)

// IsValid reports whether c is one of the transaction classifications.
// Wallet is deliberately excluded: it never classifies a submission.
func (c Classification) IsValid() bool {
	switch c {
	case Income, Expense, Movement:
		return true
	default:
		return false
	}
}

// NeedsSourceWallet reports whether a submission with this classification
// must name the wallet money leaves from.
func (c Classification) NeedsSourceWallet() bool {
	return c == Expense || c == Movement
}

// NeedsEndWallet reports whether a submission with this classification
// must name the wallet money arrives in.
func (c Classification) NeedsEndWallet() bool {
	return c == Income || c == Movement
}

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ISO renders the calendar date as an ISO 8601 day string.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Abs returns the amount with a positive sign.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

// Neg returns the amount with a negative sign.
func (m Money) Neg() Money {
	return Money{Cents: -m.Abs().Cents}
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.Cents > 0
}

// Validate checks the preconditions the form is supposed to guarantee.
// The composer calls this itself rather than trusting the caller, so an
// invalid submission yields a typed error instead of bad records.
func (in TransactionInput) Validate() error {
	if in.Classification == "" {
		return ErrIncompleteSelection
	}
	if !in.Classification.IsValid() {
		return ErrIncompleteSelection
	}
	if err := in.Date.Validate(); err != nil {
		return err
	}
	if in.Amount.Cents < 0 || in.FeeAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(in.SpecificCategory) == "" || strings.TrimSpace(in.Subcategory) == "" {
		return ErrEmptyCategory
	}
	if in.Classification.NeedsSourceWallet() && strings.TrimSpace(in.SourceWallet) == "" {
		return ErrMissingWallet
	}
	if in.Classification.NeedsEndWallet() && strings.TrimSpace(in.EndWallet) == "" {
		return ErrMissingWallet
	}
	return nil
}

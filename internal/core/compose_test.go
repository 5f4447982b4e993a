package core

import (
	"errors"
	"testing"
)

func movementInput() TransactionInput {
	return TransactionInput{
		Date:             NewDate(2025, 3, 14),
		Amount:           Money{Cents: 10000},
		Classification:   Movement,
		SpecificCategory: "Transfers",
		Subcategory:      "Internal",
		Description:      "monthly top-up",
		SourceWallet:     "Bank",
		EndWallet:        "Cash",
	}
}

func TestComposeIncomeSign(t *testing.T) {
	in := TransactionInput{
		Date:             NewDate(2025, 1, 2),
		Amount:           Money{Cents: 12345},
		Classification:   Income,
		SpecificCategory: "Salary",
		Subcategory:      "Base",
		Description:      "january pay",
		EndWallet:        "Bank",
	}
	recs, err := Compose(in)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	r := recs[0]
	if r.Amount.Cents != 12345 {
		t.Fatalf("expected +12345, got %d", r.Amount.Cents)
	}
	if r.SourceWallet != "" {
		t.Fatalf("income must not carry a source wallet, got %q", r.SourceWallet)
	}
	if r.EndWallet != "Bank" {
		t.Fatalf("expected end wallet Bank, got %q", r.EndWallet)
	}
}

func TestComposeExpenseSign(t *testing.T) {
	in := TransactionInput{
		Date:             NewDate(2025, 1, 2),
		Amount:           Money{Cents: 4500},
		Classification:   Expense,
		SpecificCategory: "Food",
		Subcategory:      "Groceries",
		Description:      "weekly shop",
		SourceWallet:     "Cash",
	}
	recs, err := Compose(in)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	r := recs[0]
	if r.Amount.Cents != -4500 {
		t.Fatalf("expected -4500, got %d", r.Amount.Cents)
	}
	if r.Classification != Expense {
		t.Fatalf("expected Expense, got %q", r.Classification)
	}
	if r.SourceWallet != "Cash" || r.EndWallet != "" {
		t.Fatalf("expense wallets wrong: source=%q end=%q", r.SourceWallet, r.EndWallet)
	}
}

func TestComposeMovementBalance(t *testing.T) {
	recs, err := Compose(movementInput())
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 legs without fee, got %d", len(recs))
	}
	debit, credit := recs[0], recs[1]
	if debit.Amount.Cents+credit.Amount.Cents != 0 {
		t.Fatalf("legs do not balance: %d + %d", debit.Amount.Cents, credit.Amount.Cents)
	}
	if debit.Amount.Cents >= 0 {
		t.Fatalf("debit leg must be negative, got %d", debit.Amount.Cents)
	}
	if debit.SourceWallet != "Bank" || debit.EndWallet != "" {
		t.Fatalf("debit wallets wrong: source=%q end=%q", debit.SourceWallet, debit.EndWallet)
	}
	if credit.SourceWallet != "" || credit.EndWallet != "Cash" {
		t.Fatalf("credit wallets wrong: source=%q end=%q", credit.SourceWallet, credit.EndWallet)
	}
	// Both legs share everything but amount and wallets.
	if debit.Description != credit.Description || debit.SpecificCategory != credit.SpecificCategory {
		t.Fatalf("legs diverged: %+v vs %+v", debit, credit)
	}
}

func TestComposeMovementWithFee(t *testing.T) {
	in := movementInput()
	in.FeeApplicable = true
	in.FeeAmount = Money{Cents: 250}

	recs, err := Compose(in)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 legs with fee, got %d", len(recs))
	}
	fee := recs[2]
	if fee.Amount.Cents != 250 {
		t.Fatalf("fee amount expected +250, got %d", fee.Amount.Cents)
	}
	if fee.SourceWallet != "Bank" || fee.EndWallet != "" {
		t.Fatalf("fee wallets wrong: source=%q end=%q", fee.SourceWallet, fee.EndWallet)
	}
	if fee.Description != FeeDescription {
		t.Fatalf("fee description expected %q, got %q", FeeDescription, fee.Description)
	}
	if fee.Description == in.Description {
		t.Fatalf("fee marker must differ from the user description")
	}
}

func TestComposeFeeGating(t *testing.T) {
	cases := []struct {
		name       string
		applicable bool
		feeCents   int64
		legs       int
	}{
		{"flag set, zero fee", true, 0, 2},
		{"flag unset, fee given", false, 250, 2},
		{"flag set, fee given", true, 250, 3},
		{"flag unset, zero fee", false, 0, 2},
	}
	for _, tc := range cases {
		in := movementInput()
		in.FeeApplicable = tc.applicable
		in.FeeAmount = Money{Cents: tc.feeCents}
		recs, err := Compose(in)
		if err != nil {
			t.Fatalf("%s: expected ok, got %v", tc.name, err)
		}
		if len(recs) != tc.legs {
			t.Fatalf("%s: expected %d legs, got %d", tc.name, tc.legs, len(recs))
		}
	}
}

func TestComposeIgnoresFeeOutsideMovement(t *testing.T) {
	in := TransactionInput{
		Date:             NewDate(2025, 1, 2),
		Amount:           Money{Cents: 100},
		Classification:   Expense,
		SpecificCategory: "Food",
		Subcategory:      "Groceries",
		Description:      "x",
		SourceWallet:     "Cash",
		FeeApplicable:    true,
		FeeAmount:        Money{Cents: 9999},
	}
	recs, err := Compose(in)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("fee fields must be ignored for Expense, got %d legs", len(recs))
	}
}

func TestComposeNoClassification(t *testing.T) {
	in := movementInput()
	in.Classification = ""
	recs, err := Compose(in)
	if !errors.Is(err, ErrIncompleteSelection) {
		t.Fatalf("expected ErrIncompleteSelection, got %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected zero records, got %d", len(recs))
	}
}

func TestComposeMissingWallets(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*TransactionInput)
	}{
		{"movement without source", func(in *TransactionInput) { in.SourceWallet = "" }},
		{"movement without end", func(in *TransactionInput) { in.EndWallet = "" }},
		{"income without end", func(in *TransactionInput) {
			in.Classification = Income
			in.SourceWallet = ""
			in.EndWallet = ""
		}},
		{"expense without source", func(in *TransactionInput) {
			in.Classification = Expense
			in.SourceWallet = ""
		}},
	}
	for _, tc := range cases {
		in := movementInput()
		tc.mutate(&in)
		if _, err := Compose(in); !errors.Is(err, ErrMissingWallet) {
			t.Fatalf("%s: expected ErrMissingWallet, got %v", tc.name, err)
		}
	}
}

func TestComposeExpenseFull(t *testing.T) {
	// Expense of 45.00, Food/Groceries, from Cash.
	in := TransactionInput{
		Date:             NewDate(2025, 6, 1),
		Amount:           Money{Cents: 4500},
		Classification:   Expense,
		SpecificCategory: "Food",
		Subcategory:      "Groceries",
		Description:      "groceries",
		SourceWallet:     "Cash",
	}
	recs, err := Compose(in)
	if err != nil || len(recs) != 1 {
		t.Fatalf("expected exactly 1 record, got %d (err %v)", len(recs), err)
	}
	got := recs[0]
	if got.Amount.Cents != -4500 || got.Classification != Expense ||
		got.SourceWallet != "Cash" || got.EndWallet != "" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestComposeRejectsNegativeAmount(t *testing.T) {
	in := movementInput()
	in.Amount = Money{Cents: -1}
	if _, err := Compose(in); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

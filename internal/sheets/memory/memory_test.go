package memory

import (
	"context"
	"testing"

	"fintrack/internal/core"
)

func TestSeededCategories(t *testing.T) {
	s := NewFromFiles("nonexistent-dir")
	entries, err := s.Categories(context.Background())
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(entries) == 0 {
		t.Fatalf("expected fallback seed entries")
	}
	catalog := core.NewCatalog(entries)
	if len(catalog.WalletNames()) == 0 {
		t.Fatalf("fallback seed must include wallets")
	}
}

func TestAppendAndPosted(t *testing.T) {
	s := New(nil)
	rec := core.TransactionRecord{
		Date:           core.NewDate(2025, 1, 1),
		Amount:         core.Money{Cents: -100},
		Classification: core.Expense,
		SourceWallet:   "Cash",
	}
	ref, err := s.Append(context.Background(), rec)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if ref != "mem:1" {
		t.Fatalf("unexpected ref %q", ref)
	}
	if got := s.Posted(); len(got) != 1 || got[0].Amount.Cents != -100 {
		t.Fatalf("posted records wrong: %+v", got)
	}
}

func TestFailAppends(t *testing.T) {
	s := New(nil)
	s.FailAppends(true)
	if _, err := s.Append(context.Background(), core.TransactionRecord{}); err == nil {
		t.Fatalf("expected forced failure")
	}
}

// Package memory is an in-process backend for development and tests.
package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fintrack/internal/core"
)

type Store struct {
	mu      sync.Mutex
	entries []core.CategoryEntry
	posted  []core.TransactionRecord
	failAll bool
}

func New(entries []core.CategoryEntry) *Store {
	return &Store{entries: entries}
}

// NewFromFiles seeds the category table from a pipe-separated
// seed_categories.txt (Classification|Specific Category|Subcategory) under
// base, falling back to a small built-in table.
func NewFromFiles(base string) *Store {
	entries := readEntries(filepath.Join(base, "seed_categories.txt"))
	if len(entries) == 0 {
		entries = []core.CategoryEntry{
			{Classification: core.Income, SpecificCategory: "Salary", Subcategory: "Base"},
			{Classification: core.Expense, SpecificCategory: "Food", Subcategory: "Groceries"},
			{Classification: core.Expense, SpecificCategory: "Home", Subcategory: "Rent"},
			{Classification: core.Movement, SpecificCategory: "Transfers", Subcategory: "Internal"},
			{Classification: core.Wallet, SpecificCategory: "Wallets", Subcategory: "Cash"},
			{Classification: core.Wallet, SpecificCategory: "Wallets", Subcategory: "Bank"},
		}
	}
	return New(entries)
}

// Categories returns the seeded category table.
func (s *Store) Categories(_ context.Context) ([]core.CategoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.CategoryEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Append stores the record and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, rec core.TransactionRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return "", fmt.Errorf("append disabled")
	}
	s.posted = append(s.posted, rec)
	return fmt.Sprintf("mem:%d", len(s.posted)), nil
}

// Posted returns a copy of everything appended so far.
func (s *Store) Posted() []core.TransactionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.TransactionRecord, len(s.posted))
	copy(out, s.posted)
	return out
}

// FailAppends makes every subsequent Append return an error. Test hook.
func (s *Store) FailAppends(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAll = fail
}

func readEntries(path string) []core.CategoryEntry {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []core.CategoryEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "|", 3)
		if len(parts) != 3 {
			continue
		}
		out = append(out, core.CategoryEntry{
			Classification:   core.Classification(strings.TrimSpace(parts[0])),
			SpecificCategory: strings.TrimSpace(parts[1]),
			Subcategory:      strings.TrimSpace(parts[2]),
		})
	}
	return out
}

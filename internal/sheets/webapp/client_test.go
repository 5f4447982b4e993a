package webapp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"
)

func TestCategoriesFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("expected GET, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"Classification":"Expense","Specific Category":"Food","Subcategory":"Groceries"},
			{"Classification":"Wallet","Specific Category":"Wallets","Subcategory":"Cash"}
		]`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	entries, err := c.Categories(context.Background())
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Classification != core.Expense || entries[0].SpecificCategory != "Food" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
	if entries[1].Classification != core.Wallet || entries[1].Subcategory != "Cash" {
		t.Fatalf("unexpected wallet entry: %+v", entries[1])
	}
}

func TestCategoriesFetchFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, _ := New(srv.URL)
	if _, err := c.Categories(context.Background()); !errors.Is(err, ports.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestAppendPayloadShape(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _ := New(srv.URL)
	rec := core.TransactionRecord{
		Date:             core.NewDate(2025, 6, 1),
		Amount:           core.Money{Cents: -4500},
		Classification:   core.Expense,
		SpecificCategory: "Food",
		Subcategory:      "Groceries",
		Description:      "weekly shop",
		SourceWallet:     "Cash",
	}
	if _, err := c.Append(context.Background(), rec); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	if got["Date"] != "2025-06-01" {
		t.Fatalf("date: %v", got["Date"])
	}
	if got["Amount"] != -45.0 {
		t.Fatalf("amount: %v", got["Amount"])
	}
	if got["Classification"] != "Expense" {
		t.Fatalf("classification: %v", got["Classification"])
	}
	if got["Source Wallet"] != "Cash" {
		t.Fatalf("source wallet: %v", got["Source Wallet"])
	}
	// Absent end wallet must serialize as explicit null.
	if v, present := got["End Wallet"]; !present || v != nil {
		t.Fatalf("end wallet must be null, got %v (present=%v)", v, present)
	}
}

func TestAppendNon200IsPerRecordFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, _ := New(srv.URL)
	rec := core.TransactionRecord{
		Date:           core.NewDate(2025, 6, 1),
		Amount:         core.Money{Cents: 100},
		Classification: core.Income,
		EndWallet:      "Bank",
	}
	if _, err := c.Append(context.Background(), rec); err == nil {
		t.Fatalf("expected error for non-200 status")
	}
}

func TestNewRequiresEndpoint(t *testing.T) {
	if _, err := New("   "); err == nil {
		t.Fatalf("expected error for empty endpoint")
	}
}

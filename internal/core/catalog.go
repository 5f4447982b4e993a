package core

import "strings"

// Catalog is the category table loaded from the remote source. It is
// read-only after load; every query is a pure filter over the entries,
// returning names in first-seen order so results are deterministic.
type Catalog struct {
	entries []CategoryEntry
}

// NewCatalog copies the given entries into a catalog. Entries with an
// empty classification are dropped.
func NewCatalog(entries []CategoryEntry) Catalog {
	kept := make([]CategoryEntry, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(string(e.Classification)) == "" {
			continue
		}
		kept = append(kept, e)
	}
	return Catalog{entries: kept}
}

// Len returns the number of entries in the catalog.
func (c Catalog) Len() int {
	return len(c.entries)
}

// Empty reports whether the catalog holds no entries, which is how a
// failed fetch is represented for the rest of the session.
func (c Catalog) Empty() bool {
	return len(c.entries) == 0
}

// Entries returns a copy of the raw category table.
func (c Catalog) Entries() []CategoryEntry {
	out := make([]CategoryEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// SpecificCategoriesFor returns the distinct specific-category names whose
// entries match the given classification.
func (c Catalog) SpecificCategoriesFor(cls Classification) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, e := range c.entries {
		if e.Classification != cls {
			continue
		}
		name := strings.TrimSpace(e.SpecificCategory)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// SubcategoriesFor returns the distinct subcategory names filtered by both
// classification and specific category. Empty when specific is not chosen.
func (c Catalog) SubcategoriesFor(cls Classification, specific string) []string {
	if strings.TrimSpace(specific) == "" {
		return nil
	}
	var out []string
	seen := map[string]struct{}{}
	for _, e := range c.entries {
		if e.Classification != cls || e.SpecificCategory != specific {
			continue
		}
		name := strings.TrimSpace(e.Subcategory)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// WalletNames returns the distinct wallet names, which the table stores as
// subcategories under the Wallet pseudo-classification.
func (c Catalog) WalletNames() []string {
	var out []string
	seen := map[string]struct{}{}
	for _, e := range c.entries {
		if e.Classification != Wallet {
			continue
		}
		name := strings.TrimSpace(e.Subcategory)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

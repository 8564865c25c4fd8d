package testhelpers

import (
	"testing"

	"github.com/myrjola/fightcamp/internal/catalog"
)

// NewCatalog loads the banks bundled with the binary.
func NewCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	loader := catalog.NewLoader(catalog.DefaultBanks(), NewTestLogger(t))
	cat, err := loader.LoadCatalog(t.Context())
	if err != nil {
		t.Fatalf("load default banks: %v", err)
	}
	return cat
}

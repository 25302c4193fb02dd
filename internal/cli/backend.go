package cli

import (
	"fmt"
	"strings"

	"github.com/idilsaglam/suru/internal/store"
	"github.com/idilsaglam/suru/internal/store/jsonstore"
	"github.com/idilsaglam/suru/internal/store/memstore"
	"github.com/idilsaglam/suru/internal/store/sqlitestore"
)

const (
	backendJSON   = "json"
	backendSQLite = "sqlite"
	backendMemory = "memory"
)

// openStore returns the store for backend rooted at dataDir, and a close
// function the caller must run.
func openStore(backend, dataDir string) (store.KV, func() error, error) {
	noop := func() error { return nil }
	switch strings.ToLower(backend) {
	case backendJSON, "":
		return jsonstore.New(dataDir), noop, nil
	case backendSQLite:
		s, err := sqlitestore.Open(dataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return s, s.Close, nil
	case backendMemory:
		return memstore.New(), noop, nil
	}
	return nil, nil, usageErrorf("unknown backend %q (want %s, %s or %s)",
		backend, backendJSON, backendSQLite, backendMemory)
}

// Package factory constructs the configured journal backend.
package factory

import (
	"fmt"

	"github.com/halcyon-engine/missions/internal/config"
	"github.com/halcyon-engine/missions/internal/journal"
	"github.com/halcyon-engine/missions/internal/journal/gormstore"
	"github.com/halcyon-engine/missions/internal/journal/memory"
	"github.com/rs/zerolog"
)

// NewBackend returns the journal backend named by journal.type in config.
// Supported types are "memory" and "database".
func NewBackend(log zerolog.Logger) (journal.Backend, error) {
	jc := config.GetJournalConfig()
	switch jc.Type {
	case "memory":
		return memory.New(), nil
	case "database":
		sq := config.GetSqliteConfig()
		return gormstore.New(log, sq.DumpPath, sq.DumpInterval), nil
	default:
		return nil, fmt.Errorf("unknown journal type %q", jc.Type)
	}
}

// Package gormstore implements the journal backend on a GORM database,
// Postgres when reachable and an in-memory SQLite otherwise.
package gormstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/halcyon-engine/missions/internal/database"
	"github.com/halcyon-engine/missions/internal/journal"
	"github.com/halcyon-engine/missions/internal/model"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// Backend writes the journal through a database.Manager.
type Backend struct {
	manager      *database.Manager
	log          zerolog.Logger
	dumpPath     string
	dumpInterval time.Duration
	stopDump     chan struct{}
}

var _ journal.Backend = (*Backend)(nil)

// New creates a gorm-backed journal. dumpPath and dumpInterval control the
// periodic VACUUM of the in-memory SQLite fallback to disk; a zero interval
// or empty path disables the dump loop.
func New(log zerolog.Logger, dumpPath string, dumpInterval time.Duration) *Backend {
	b := &Backend{
		manager:      database.NewManager(log),
		log:          log,
		dumpPath:     dumpPath,
		dumpInterval: dumpInterval,
	}
	b.manager.SqliteFilePath = dumpPath
	return b
}

// Init connects and migrates. The dump loop starts only once the connection
// is established, so it never observes the manager mid-connect.
func (b *Backend) Init() error {
	if err := b.manager.Connect(); err != nil {
		return fmt.Errorf("journal database connect: %w", err)
	}
	if err := b.manager.Setup(); err != nil {
		return fmt.Errorf("journal database setup: %w", err)
	}
	if b.dumpPath != "" && b.dumpInterval > 0 {
		b.stopDump = make(chan struct{})
		go b.dumpLoop(b.dumpInterval)
	}
	return nil
}

func (b *Backend) Close() error {
	if b.stopDump != nil {
		close(b.stopDump)
	}
	if b.manager.ShouldSaveLocal && b.dumpPath != "" {
		if err := b.manager.DumpMemoryToDisk(); err != nil {
			b.log.Error().Err(err).Msg("Failed to dump journal DB to disk")
		}
	}
	if b.manager.SqlDB != nil {
		return b.manager.SqlDB.Close()
	}
	return nil
}

func (b *Backend) dumpLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if !b.manager.ShouldSaveLocal {
				continue
			}
			if err := b.manager.DumpMemoryToDisk(); err != nil {
				b.log.Error().Err(err).Msg("Failed to dump journal DB to disk")
			}
		case <-b.stopDump:
			return
		}
	}
}

func (b *Backend) MissionAccepted(a journal.Accepted) error {
	rec := model.MissionRecord{
		RuntimeID:  a.RuntimeID,
		Name:       a.Name,
		Title:      a.Title,
		ScriptMod:  a.ScriptMod,
		AcceptedAt: a.AcceptedAt,
	}
	return b.manager.DB.Create(&rec).Error
}

func (b *Backend) MissionFinished(f journal.Finished) error {
	at := f.FinishedAt
	return b.manager.DB.Model(&model.MissionRecord{}).
		Where("runtime_id = ? AND outcome = ''", f.RuntimeID).
		Updates(map[string]any{
			"outcome":     f.Outcome,
			"finished_at": &at,
		}).Error
}

func (b *Backend) RecordEvent(e journal.Event) error {
	var detail datatypes.JSON
	if e.Detail != nil {
		raw, err := json.Marshal(e.Detail)
		if err != nil {
			return fmt.Errorf("marshal event detail: %w", err)
		}
		detail = raw
	}
	ev := model.MissionEvent{
		RuntimeID: e.RuntimeID,
		Mission:   e.Mission,
		Kind:      e.Kind,
		Entry:     e.Entry,
		Detail:    detail,
	}
	return b.manager.DB.Create(&ev).Error
}

func (b *Backend) CompletedNames() ([]string, error) {
	var names []string
	err := b.manager.DB.Model(&model.CompletedMission{}).
		Order("id").
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (b *Backend) MarkCompleted(name string) error {
	rec := model.CompletedMission{Name: name}
	return b.manager.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error
}

package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"codesync/internal/models"
)

// RoomEvictor removes rooms that have been empty for at least ttl and
// returns their final contents.
type RoomEvictor interface {
	EvictIdle(ttl time.Duration) []*models.Project
}

type Archiver interface {
	Enabled() bool
	Archive(ctx context.Context, project *models.Project) bool
}

type SweeperConfig struct {
	Schedule string        // cron spec, e.g. "@every 1m"
	IdleTTL  time.Duration // zero disables eviction
}

// RoomSweeper periodically drops idle rooms, archiving their files first
// when a document store is configured.
type RoomSweeper struct {
	rooms    RoomEvictor
	archiver Archiver
	config   SweeperConfig
	cron     *cron.Cron
	log      *zap.Logger
}

func NewRoomSweeper(rooms RoomEvictor, archiver Archiver, config SweeperConfig, log *zap.Logger) *RoomSweeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &RoomSweeper{
		rooms:    rooms,
		archiver: archiver,
		config:   config,
		cron:     cron.New(),
		log:      log,
	}
}

func (s *RoomSweeper) Start() error {
	if s.config.IdleTTL <= 0 {
		s.log.Info("room eviction disabled, skipping scheduler")
		return nil
	}

	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.Sweep(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule room sweep: %w", err)
	}

	s.cron.Start()
	s.log.Info("room sweeper started",
		zap.String("schedule", s.config.Schedule),
		zap.Duration("idle_ttl", s.config.IdleTTL))
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *RoomSweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Sweep performs one eviction pass and returns how many rooms were evicted.
func (s *RoomSweeper) Sweep(ctx context.Context) int {
	evicted := s.rooms.EvictIdle(s.config.IdleTTL)
	if len(evicted) == 0 {
		return 0
	}

	archive := s.archiver != nil && s.archiver.Enabled()
	for _, project := range evicted {
		if archive && !s.archiver.Archive(ctx, project) {
			s.log.Warn("failed to archive evicted room", zap.String("room_id", project.ID))
			continue
		}
		s.log.Info("evicted idle room",
			zap.String("room_id", project.ID),
			zap.Int("files", len(project.Files)),
			zap.Bool("archived", archive))
	}
	return len(evicted)
}

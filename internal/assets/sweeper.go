package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/sigongjoa/Concept-Gacha/internal/models"
)

// Snapshotter gives the sweeper a view of which images cards still use.
type Snapshotter interface {
	Snapshot(ctx context.Context) (models.Dataset, error)
}

// Sweeper removes uploaded images that no card references. Files younger
// than the grace period are kept: they may belong to a card being created.
type Sweeper struct {
	store *DiskStore
	cards Snapshotter
	grace time.Duration
	log   *zap.Logger
	now   func() time.Time
	sched *gocron.Scheduler
}

// NewSweeper creates a Sweeper over store.
func NewSweeper(store *DiskStore, cards Snapshotter, grace time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{
		store: store,
		cards: cards,
		grace: grace,
		log:   log,
		now:   time.Now,
	}
}

// Sweep runs one pass and returns how many files were removed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	ds, err := s.cards.Snapshot(ctx)
	if err != nil {
		return 0, fmt.Errorf("snapshot: %w", err)
	}
	referenced := make(map[string]bool, len(ds.Cards))
	for _, c := range ds.Cards {
		if c.QuestionImage != nil {
			referenced[*c.QuestionImage] = true
		}
	}

	entries, err := os.ReadDir(s.store.Dir())
	if err != nil {
		return 0, fmt.Errorf("read assets dir: %w", err)
	}

	cutoff := s.now().Add(-s.grace)
	removed := 0
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || referenced[name] || strings.HasPrefix(name, ".") {
			continue
		}
		if _, ok := allowed[strings.ToLower(filepath.Ext(name))]; !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			s.log.Warn("failed to stat asset", zap.String("name", name), zap.Error(err))
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := s.store.Remove(name); err != nil {
			s.log.Warn("failed to remove unreferenced asset", zap.String("name", name), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

// Start schedules Sweep every interval until ctx is done or Stop is called.
// The first pass runs immediately.
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) error {
	s.sched = gocron.NewScheduler(time.UTC)
	s.sched.SingletonModeAll()

	_, err := s.sched.Every(interval).Do(func() {
		removed, err := s.Sweep(ctx)
		if err != nil {
			s.log.Error("failed to sweep unreferenced assets", zap.Error(err))
			return
		}
		if removed > 0 {
			s.log.Info("swept unreferenced assets", zap.Int("removed", removed))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule asset sweep: %w", err)
	}
	s.sched.StartAsync()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop ends the schedule started by Start.
func (s *Sweeper) Stop() {
	if s.sched != nil && s.sched.IsRunning() {
		s.sched.Stop()
	}
}

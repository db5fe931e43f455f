package db

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sukalov/liveset/internal/logger"
)

// ScheduleReload registers a job that reloads the book on the given cron
// spec. The returned scheduler is not started.
func (s *Songbook) ScheduleReload(spec string) (*cron.Cron, error) {
	scheduler := cron.New()
	_, err := scheduler.AddFunc(spec, func() {
		if err := s.Load(context.Background()); err != nil {
			logger.Error(fmt.Sprintf("scheduled songbook reload failed\nBook: %s\nError: %v", s.book, err))
			return
		}
		logger.Debug(fmt.Sprintf("songbook %s reloaded: %d songs", s.book, len(s.All())))
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reload schedule %q: %w", spec, err)
	}
	return scheduler, nil
}

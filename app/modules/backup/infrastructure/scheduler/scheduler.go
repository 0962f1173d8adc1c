package backupscheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	backupservice "github.com/Black-And-White-Club/raid-challenge/app/modules/backup/application"
	"github.com/Black-And-White-Club/raid-challenge/app/observability/attr"
	"github.com/go-co-op/gocron/v2"
)

// ErrInvalidSchedule rejects a time of day that is not HH:MM.
var ErrInvalidSchedule = errors.New("schedule must be HH:MM")

// Scheduler runs the daily snapshot.
type Scheduler struct {
	service backupservice.Service
	sched   gocron.Scheduler
	logger  *slog.Logger
}

// ParseSchedule splits "HH:MM" into hour and minute.
func ParseSchedule(s string) (uint, uint, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSchedule, s)
	}
	h, err := strconv.ParseUint(hh, 10, 8)
	if err != nil || h > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSchedule, s)
	}
	m, err := strconv.ParseUint(mm, 10, 8)
	if err != nil || m > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSchedule, s)
	}
	return uint(h), uint(m), nil
}

// NewScheduler registers a daily snapshot job at the given "HH:MM" local
// time. The scheduler is not started.
func NewScheduler(ctx context.Context, service backupservice.Service, at string, logger *slog.Logger) (*Scheduler, error) {
	hour, minute, err := ParseSchedule(at)
	if err != nil {
		return nil, err
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	s := &Scheduler{service: service, sched: sched, logger: logger}
	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(hour, minute, 0))),
		gocron.NewTask(func() { s.runDaily(ctx) }),
		gocron.WithName("daily-snapshot"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to register snapshot job: %w", err)
	}
	return s, nil
}

func (s *Scheduler) runDaily(ctx context.Context) {
	snap, err := s.service.CreateSnapshot(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Scheduled snapshot failed", attr.Error(err))
		return
	}
	s.logger.InfoContext(ctx, "Scheduled snapshot done",
		attr.String("file", snap.Name),
		attr.Bool("created", snap.Created),
	)
}

// Start launches the scheduler and takes a snapshot right away when
// today's is missing.
func (s *Scheduler) Start(ctx context.Context) {
	s.sched.Start()

	need, err := s.service.NeedsSnapshot(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Could not check today's snapshot", attr.Error(err))
		return
	}
	if need {
		s.runDaily(ctx)
	}
}

// Shutdown stops the scheduler and waits for a running job.
func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}

package reminders

import (
	"context"
	"log"
	"time"
)

// Sender delivers a reminder message to a channel.
type Sender interface {
	SendReminder(ctx context.Context, channelID, message string) error
}

// SchedulerOptions tune the polling loop.
type SchedulerOptions struct {
	Interval       time.Duration
	UTCOffsetHours int
	// Dedupe sends each reminder at most once per scheduled minute.
	Dedupe bool
}

// Scheduler polls the store and fires reminders whose time matches now.
type Scheduler struct {
	store  *Store
	sender Sender
	opts   SchedulerOptions
	zone   *time.Location
	now    func() time.Time
}

func NewScheduler(store *Store, sender Sender, opts SchedulerOptions) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	return &Scheduler{
		store:  store,
		sender: sender,
		opts:   opts,
		zone:   Zone(opts.UTCOffsetHours),
		now:    time.Now,
	}
}

// Run ticks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	log.Printf("reminders: scheduler started (every %s, %s, dedupe=%t)", s.opts.Interval, s.zone, s.opts.Dedupe)
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("reminders: scheduler stopped")
			return
		case <-ticker.C:
			if n, err := s.Tick(ctx); err != nil {
				log.Printf("reminders: tick: %v", err)
			} else if n > 0 {
				log.Printf("reminders: sent %d reminder(s)", n)
			}
		}
	}
}

// Tick fires every reminder due this minute and returns how many were sent.
func (s *Scheduler) Tick(ctx context.Context) (int, error) {
	local := s.now().In(s.zone)
	hhmm := local.Format("15:04")
	minute := local.Format(MinuteLayout)

	due, err := s.store.Due(ctx, hhmm)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, r := range due {
		if s.opts.Dedupe && r.LastFired == minute {
			continue
		}
		if err := s.sender.SendReminder(ctx, r.ChannelID, r.Message); err != nil {
			log.Printf("reminders: send #%d to %s: %v", r.ID, r.ChannelID, err)
			continue
		}
		sent++
		if s.opts.Dedupe {
			if err := s.store.MarkFired(ctx, r.ID, minute); err != nil {
				log.Printf("reminders: %v", err)
			}
		}
	}
	return sent, nil
}

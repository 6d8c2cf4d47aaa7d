package reminders

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/tlou-esports/te-suggestions/src/actions/core"
	sharedconfig "github.com/tlou-esports/te-suggestions/src/config"
	"github.com/tlou-esports/te-suggestions/src/discord"
	"github.com/tlou-esports/te-suggestions/src/discordbot"
	domain "github.com/tlou-esports/te-suggestions/src/reminders"
)

var _ core.Module = (*Module)(nil)

// Registrar is the part of the shared bot this module hooks into.
type Registrar interface {
	Handle(kind discordbot.Kind, key string, h discordbot.Handler)
	AddCommands(defs ...*discordgo.ApplicationCommand)
	Session() discord.Session
}

type Module struct {
	config    *sharedconfig.RemindersConfig
	store     *domain.Store
	scheduler *domain.Scheduler
	handler   *Handler

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewModule wires the reminder table to slash commands and the scheduler.
func NewModule(cfg *sharedconfig.RemindersConfig, bot Registrar, store *domain.Store) (*Module, error) {
	if store == nil {
		return nil, fmt.Errorf("reminders: store is required")
	}
	session := bot.Session()
	scheduler := domain.NewScheduler(store, channelSender{session: session}, domain.SchedulerOptions{
		Interval:       cfg.Interval,
		UTCOffsetHours: cfg.UTCOffsetHours,
		Dedupe:         cfg.Dedupe,
	})

	m := &Module{
		config:    cfg,
		store:     store,
		scheduler: scheduler,
		handler: &Handler{
			Session:   session,
			Store:     store,
			Zone:      domain.Zone(cfg.UTCOffsetHours).String(),
			StaffOnly: cfg.StaffOnly,
		},
	}

	bot.AddCommands(CommandDefinitions(cfg.StaffOnly)...)
	bot.Handle(discordbot.KindCommand, discord.CommandAddReminder, m.handler.HandleAdd)
	bot.Handle(discordbot.KindCommand, discord.CommandListReminders, m.handler.HandleList)
	bot.Handle(discordbot.KindCommand, discord.CommandDeleteReminder, m.handler.HandleDelete)
	return m, nil
}

func (m *Module) Name() string { return "reminders" }

// Start launches the polling loop.
func (m *Module) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return fmt.Errorf("reminders: already started")
	}

	runCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		m.scheduler.Run(runCtx)
	}(m.done)

	log.Printf("reminders: module started")
	return nil
}

// Stop cancels the polling loop and waits for an in-flight tick.
func (m *Module) Stop(ctx context.Context) {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()
	if cancel == nil {
		return
	}

	cancel()
	select {
	case <-done:
	case <-ctx.Done():
		log.Printf("reminders: stop: %v", ctx.Err())
	}
}

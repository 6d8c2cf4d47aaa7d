package discordbot

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/tlou-esports/te-suggestions/src/actions/core"
	"github.com/tlou-esports/te-suggestions/src/discord"
	"github.com/tlou-esports/te-suggestions/src/locales"
)

var _ core.Module = (*Bot)(nil)

// Options configure the shared Discord connection.
type Options struct {
	Token     string
	GuildID   string
	Workers   int
	QueueSize int
}

// Bot owns the single gateway session. Callbacks only translate payloads
// into events; the dispatcher workers do the actual handling.
type Bot struct {
	*Dispatcher

	session *discordgo.Session
	guildID string
	workers int

	mu       sync.RWMutex
	commands []*discordgo.ApplicationCommand
	selfID   string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(opts Options) (*Bot, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("discordbot: token is required")
	}
	session, err := discordgo.New("Bot " + opts.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsMessageContent

	b := &Bot{
		Dispatcher: NewDispatcher(opts.QueueSize),
		session:    session,
		guildID:    opts.GuildID,
		workers:    opts.Workers,
	}
	b.On(KindReady, b.registerCommands)
	b.OnError(b.replyFailure)

	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteractionCreate)
	session.AddHandler(b.onReactionAdd)
	session.AddHandler(b.onReactionRemove)
	session.AddHandler(b.onMessageCreate)
	return b, nil
}

// Name implements actions.Module.
func (b *Bot) Name() string { return "discordbot" }

// Session exposes the REST side of the connection to modules.
func (b *Bot) Session() discord.Session { return b.session }

func (b *Bot) GuildID() string { return b.guildID }

// SelfID is the bot's own user id once the gateway is ready.
func (b *Bot) SelfID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selfID
}

// AddCommands contributes slash command definitions registered on ready.
func (b *Bot) AddCommands(defs ...*discordgo.ApplicationCommand) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.commands = append(b.commands, defs...)
}

// Commands returns the contributed definitions.
func (b *Bot) Commands() []*discordgo.ApplicationCommand {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]*discordgo.ApplicationCommand(nil), b.commands...)
}

// ApplicationID resolves the bot's application id over REST when the
// gateway has not been opened, as in the CLI.
func (b *Bot) ApplicationID() (string, error) {
	if id := b.SelfID(); id != "" {
		return id, nil
	}
	me, err := b.session.User("@me")
	if err != nil {
		return "", fmt.Errorf("discordbot: resolve application id: %w", err)
	}
	return me.ID, nil
}

// Start opens the gateway and starts the dispatcher workers.
func (b *Bot) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.Run(runCtx, b.workers)
	}()

	if err := b.session.Open(); err != nil {
		cancel()
		b.wg.Wait()
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	return nil
}

// Stop drains the queue, stops the workers and closes the session last.
func (b *Bot) Stop(ctx context.Context) {
	b.Close()
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Printf("discordbot: stop deadline reached with events pending")
	}
	if b.cancel != nil {
		b.cancel()
	}
	if err := b.session.Close(); err != nil {
		log.Printf("discordbot: close session: %v", err)
	}
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	if r.User != nil {
		b.mu.Lock()
		b.selfID = r.User.ID
		b.mu.Unlock()
		log.Printf("discordbot: logged in as %s", r.User.String())
	}
	ev := newEvent(KindReady)
	ev.Ready = r
	b.Enqueue(ev)
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var kind Kind
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		kind = KindCommand
	case discordgo.InteractionMessageComponent:
		kind = KindComponent
	case discordgo.InteractionModalSubmit:
		kind = KindModal
	default:
		return
	}
	ev := newEvent(kind)
	ev.Interaction = i.Interaction
	b.Enqueue(ev)
}

func (b *Bot) onReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	ev := newEvent(KindReactionAdd)
	ev.Reaction = r.MessageReaction
	b.Enqueue(ev)
}

func (b *Bot) onReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	ev := newEvent(KindReactionRemove)
	ev.Reaction = r.MessageReaction
	b.Enqueue(ev)
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	ev := newEvent(KindMessageCreate)
	ev.Message = m.Message
	b.Enqueue(ev)
}

func (b *Bot) registerCommands(ctx context.Context, ev *Event) error {
	defs := b.Commands()
	if len(defs) == 0 || b.guildID == "" {
		log.Printf("discordbot: no slash commands to register")
		return nil
	}
	appID := b.SelfID()
	if ev.Ready != nil && ev.Ready.Application != nil && ev.Ready.Application.ID != "" {
		appID = ev.Ready.Application.ID
	}
	return discord.RegisterSlashCommands(b.session, appID, b.guildID, defs)
}

func (b *Bot) replyFailure(ctx context.Context, ev *Event, err error) {
	ReplyFailure(b.session, ev)
}

// ReplyFailure tells the invoking user something went wrong without any
// detail. It falls back to a follow-up when the interaction was already acknowledged.
func ReplyFailure(s discord.Session, ev *Event) {
	if ev.Interaction == nil {
		return
	}
	l := locales.NewLocalizer(string(ev.Interaction.Locale))
	msg := l.T("ErrGeneric", nil)
	if err := discord.RespondEphemeral(s, ev.Interaction, msg); err == nil {
		return
	}
	if _, err := s.FollowupMessageCreate(ev.Interaction, false, &discordgo.WebhookParams{
		Content: msg,
		Flags:   discordgo.MessageFlagsEphemeral,
	}); err != nil {
		log.Printf("discordbot: failure reply for event %s: %v", ev.ID, err)
	}
}

package suggestions

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	"github.com/tlou-esports/te-suggestions/src/actions/core"
	sharedconfig "github.com/tlou-esports/te-suggestions/src/config"
	"github.com/tlou-esports/te-suggestions/src/discord"
	"github.com/tlou-esports/te-suggestions/src/discordbot"
	domain "github.com/tlou-esports/te-suggestions/src/suggestions"
)

var _ core.Module = (*Module)(nil)

// Registrar is the part of the shared bot a module hooks into.
type Registrar interface {
	Handle(kind discordbot.Kind, key string, h discordbot.Handler)
	On(kind discordbot.Kind, h discordbot.Handler)
	AddCommands(defs ...*discordgo.ApplicationCommand)
	SelfID() string
	Session() discord.Session
}

type Module struct {
	config   *sharedconfig.SuggestionsConfig
	store    domain.Store
	manager  *domain.Manager
	platform *Platform
	handler  *Handler
}

// NewModule wires the suggestion lifecycle to Discord. rdb may be nil.
func NewModule(cfg *sharedconfig.SuggestionsConfig, bot Registrar, store domain.Store, rdb *redis.Client) (*Module, error) {
	if store == nil {
		return nil, fmt.Errorf("suggestions: store is required")
	}
	if cfg.ChannelID == "" {
		log.Printf("suggestions: suggestions_channel_id not set, submissions will be refused")
	}

	session := bot.Session()
	approve := discord.ParseEmoji(cfg.ApproveEmoji)
	reject := discord.ParseEmoji(cfg.RejectEmoji)

	platform := &Platform{
		session:         session,
		users:           newUserCache(session, cfg.UserCacheTTL),
		render:          renderer{approve: approve, reject: reject},
		channelID:       cfg.ChannelID,
		reviewChannelID: cfg.ReviewChannelID,
		community:       cfg.CommunityName,
		selfID:          bot.SelfID,
	}
	if cfg.PublishDecisions {
		platform.rdb = rdb
	}

	manager := domain.NewManager(store, platform, domain.Options{AllowRedecide: cfg.AllowRedecide})

	module := &Module{
		config:   cfg,
		store:    store,
		manager:  manager,
		platform: platform,
		handler: &Handler{
			Session:      session,
			Manager:      manager,
			Platform:     platform,
			ChannelID:    cfg.ChannelID,
			CleanChannel: cfg.CleanChannel,
			ApproveEmoji: approve,
			RejectEmoji:  reject,
			SelfID:       bot.SelfID,
			StaffRoleID:  cfg.StaffRoleID,
			Configured:   cfg.ChannelID != "" && cfg.ReviewChannelID != "",
		},
	}
	module.register(bot)
	return module, nil
}

func (m *Module) register(bot Registrar) {
	bot.AddCommands(CommandDefinitions()...)

	bot.Handle(discordbot.KindCommand, discord.CommandSuggest, m.handler.OpenModal)
	bot.Handle(discordbot.KindComponent, ButtonSuggest, m.handler.OpenModal)
	bot.Handle(discordbot.KindModal, ModalSuggest, m.handler.SubmitModal)
	bot.Handle(discordbot.KindCommand, discord.CommandApprove, m.handler.HandleApprove)
	bot.Handle(discordbot.KindCommand, discord.CommandReject, m.handler.HandleReject)
	bot.Handle(discordbot.KindCommand, discord.CommandVotes, m.handler.HandleVotes)
	bot.Handle(discordbot.KindCommand, discord.CommandSuggestionPanel, m.handler.HandlePanel)

	bot.On(discordbot.KindReactionAdd, m.handler.OnReactionAdd)
	bot.On(discordbot.KindReactionRemove, m.handler.OnReactionRemove)
	bot.On(discordbot.KindMessageCreate, m.handler.OnMessageCreate)
}

// Name implements actions.Module.
func (m *Module) Name() string { return "suggestions" }

// Manager exposes the lifecycle for read-only consumers such as the HTTP API.
func (m *Module) Manager() *domain.Manager { return m.manager }

func (m *Module) Start(ctx context.Context) error {
	doc, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("suggestions: load store: %w", err)
	}
	m.platform.users.start()
	log.Printf("suggestions: %d suggestion(s) loaded, last id %d", len(doc.Suggestions), doc.LastID)
	return nil
}

func (m *Module) Stop(ctx context.Context) {
	m.platform.users.stop()
}

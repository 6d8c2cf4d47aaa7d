package actions

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	remindersmodule "github.com/tlou-esports/te-suggestions/src/actions/reminders"
	suggestionsmodule "github.com/tlou-esports/te-suggestions/src/actions/suggestions"
	"github.com/tlou-esports/te-suggestions/src/api"
	sharedconfig "github.com/tlou-esports/te-suggestions/src/config"
	"github.com/tlou-esports/te-suggestions/src/discordbot"
	"github.com/tlou-esports/te-suggestions/src/reminders"
	"github.com/tlou-esports/te-suggestions/src/suggestions"
	"gorm.io/gorm"
)

// Deps are the shared connections opened by the CLI. Redis may be nil.
type Deps struct {
	DB    *gorm.DB
	Redis *redis.Client
	Bot   *discordbot.Bot
}

// OpenSuggestionStore picks the document backend from configuration.
func OpenSuggestionStore(cfg sharedconfig.StoreConfig, rdb *redis.Client) (suggestions.Store, error) {
	switch cfg.Backend {
	case sharedconfig.StoreRedis:
		if rdb == nil {
			return nil, fmt.Errorf("actions: suggestions_store=redis needs REDIS_URL")
		}
		return suggestions.NewRedisStore(rdb, cfg.RedisKey).WithVoteKeys(voteKeys(cfg)), nil
	default:
		return suggestions.NewFileStore(cfg.File).WithVoteKeys(voteKeys(cfg)), nil
	}
}

func voteKeys(cfg sharedconfig.StoreConfig) suggestions.VoteKeys {
	keys := suggestions.DefaultVoteKeys()
	if cfg.LegacyApproveKey != "" {
		keys[cfg.LegacyApproveKey] = suggestions.MarkApprove
	}
	if cfg.LegacyRejectKey != "" {
		keys[cfg.LegacyRejectKey] = suggestions.MarkReject
	}
	return keys
}

// CommandDefinitions lists the slash commands of every enabled module.
func CommandDefinitions(db *gorm.DB) []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	if sharedconfig.LoadSuggestionsConfig(db).Enabled {
		defs = append(defs, suggestionsmodule.CommandDefinitions()...)
	}
	if db != nil && sharedconfig.LoadRemindersConfig(db).Enabled {
		defs = append(defs, remindersmodule.CommandDefinitions(sharedconfig.LoadRemindersConfig(db).StaffOnly)...)
	}
	return defs
}

// StartAll wires up enabled action modules and starts the manager. The bot
// is registered first so it starts first and its session closes last.
func StartAll(ctx context.Context, deps Deps) (*Manager, error) {
	if deps.Bot == nil {
		return nil, fmt.Errorf("actions: bot is required")
	}
	mgr := NewManager(deps.Bot)

	var suggestionSrc api.SuggestionSource
	suggestionsCfg := sharedconfig.LoadSuggestionsConfig(deps.DB)
	if suggestionsCfg.Enabled {
		store, err := OpenSuggestionStore(suggestionsCfg.Store, deps.Redis)
		if err != nil {
			return nil, err
		}
		mod, err := suggestionsmodule.NewModule(&suggestionsCfg, deps.Bot, store, deps.Redis)
		if err != nil {
			return nil, fmt.Errorf("actions: init suggestions module: %w", err)
		}
		if err := mgr.Add(mod); err != nil {
			return nil, fmt.Errorf("actions: add suggestions module: %w", err)
		}
		suggestionSrc = mod.Manager()
		log.Printf("actions: suggestions module using %s store", suggestionsCfg.Store.Backend)
	} else {
		log.Printf("actions: suggestions module disabled via configuration")
	}

	var reminderSrc api.ReminderSource
	remindersCfg := sharedconfig.LoadRemindersConfig(deps.DB)
	switch {
	case !remindersCfg.Enabled:
		log.Printf("actions: reminders module disabled via configuration")
	case deps.DB == nil:
		log.Printf("actions: reminders module needs a database, skipping")
	default:
		store := reminders.NewStore(deps.DB)
		mod, err := remindersmodule.NewModule(&remindersCfg, deps.Bot, store)
		if err != nil {
			return nil, fmt.Errorf("actions: init reminders module: %w", err)
		}
		if err := mgr.Add(mod); err != nil {
			return nil, fmt.Errorf("actions: add reminders module: %w", err)
		}
		reminderSrc = store
	}

	apiCfg := sharedconfig.LoadAPIConfig(deps.DB)
	switch {
	case !apiCfg.Enabled:
		log.Printf("actions: API disabled via configuration")
	case suggestionSrc == nil:
		log.Printf("actions: API needs the suggestions module, skipping")
	default:
		srv, err := api.NewServer(apiCfg, suggestionSrc, reminderSrc)
		if err != nil {
			return nil, err
		}
		if err := mgr.Add(srv); err != nil {
			return nil, fmt.Errorf("actions: add API module: %w", err)
		}
	}

	if err := mgr.Start(ctx); err != nil {
		return nil, err
	}
	return mgr, nil
}

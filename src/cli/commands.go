package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tlou-esports/te-suggestions/src/actions"
	sharedconfig "github.com/tlou-esports/te-suggestions/src/config"
	"github.com/tlou-esports/te-suggestions/src/discord"
	"github.com/tlou-esports/te-suggestions/src/discordbot"
	"gorm.io/gorm"
)

func commandsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commands",
		Short: "Manage the guild slash commands without starting the bot",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "register",
		Short: "Overwrite the guild's slash commands with the enabled modules' definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBot(func(bot *discordbot.Bot, appID string, db *gorm.DB) error {
				defs := actions.CommandDefinitions(db)
				if err := discord.RegisterSlashCommands(bot.Session(), appID, bot.GuildID(), defs); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "registered %d command(s) in guild %s\n", len(defs), bot.GuildID())
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Remove every slash command of the bot from the guild",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBot(func(bot *discordbot.Bot, appID string, db *gorm.DB) error {
				if err := discord.DeleteSlashCommands(bot.Session(), appID, bot.GuildID()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted slash commands in guild %s\n", bot.GuildID())
				return nil
			})
		},
	})
	return cmd
}

// withBot builds a REST-only session; the gateway is never opened.
func withBot(fn func(bot *discordbot.Bot, appID string, db *gorm.DB) error) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	base := sharedconfig.LoadBase(db)
	if base.GuildID == "" {
		return fmt.Errorf("guild_id is not configured")
	}
	bot, err := discordbot.New(discordbot.Options{Token: base.Token, GuildID: base.GuildID})
	if err != nil {
		return err
	}
	appID, err := bot.ApplicationID()
	if err != nil {
		return err
	}
	return fn(bot, appID, db)
}

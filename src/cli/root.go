// Package cli is the te-suggestions command line: the bot itself plus the
// maintenance commands that share its configuration.
package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	sharedconfig "github.com/tlou-esports/te-suggestions/src/config"
	"github.com/tlou-esports/te-suggestions/src/data"
	"gorm.io/gorm"
)

var Version = "dev"

// NewRootCommand builds the command tree. Running it without a subcommand serves the bot.
func NewRootCommand() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:           "te-suggestions",
		Short:         "Community suggestions and reminders bot",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			sharedconfig.LoadEnv(envFiles...)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files to load before reading configuration")

	root.AddCommand(serveCmd())
	root.AddCommand(commandsCmd())
	root.AddCommand(migrateCmd())
	return root
}

func openDatabase() (*gorm.DB, error) {
	dbCfg := sharedconfig.LoadDatabaseConfig()
	db, err := data.Open(dbCfg.Driver, dbCfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	return db, nil
}

// openRedis returns nil when REDIS_URL is not set.
func openRedis(ctx context.Context) (*redis.Client, error) {
	url := sharedconfig.LoadDatabaseConfig().RedisURL
	if url == "" {
		log.Printf("cli: REDIS_URL not set, redis features disabled")
		return nil, nil
	}
	rdb, err := data.ConnectRedis(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return rdb, nil
}

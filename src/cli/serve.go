package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tlou-esports/te-suggestions/src/actions"
	sharedconfig "github.com/tlou-esports/te-suggestions/src/config"
	"github.com/tlou-esports/te-suggestions/src/data"
	"github.com/tlou-esports/te-suggestions/src/discordbot"
	"github.com/tlou-esports/te-suggestions/src/locales"
	"github.com/tlou-esports/te-suggestions/src/logging"
	"github.com/tlou-esports/te-suggestions/src/reminders"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Connect to Discord and run all enabled modules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	db, err := openDatabase()
	if err != nil {
		return err
	}
	if err := data.Migrate(db, &reminders.Reminder{}); err != nil {
		return err
	}

	base := sharedconfig.LoadBase(db)
	if err := locales.Init(base.Language); err != nil {
		return err
	}
	if err := logging.InitSentry(logging.SentryOptions{
		DSN:         base.SentryDSN,
		Environment: base.AppEnv,
		Release:     "te-suggestions@" + Version,
	}); err != nil {
		log.Printf("cli: %v", err)
	}
	defer logging.Flush()

	rdb, err := openRedis(parent)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	bot, err := discordbot.New(discordbot.Options{
		Token:   base.Token,
		GuildID: base.GuildID,
		Workers: base.DispatchWorkers,
	})
	if err != nil {
		return err
	}

	// Modules run on their own context so a signal does not cut off the
	// queue drain in Stop.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(parent))
	defer cancel()

	manager, err := actions.StartAll(runCtx, actions.Deps{DB: db, Redis: rdb, Bot: bot})
	if err != nil {
		return fmt.Errorf("actions start: %w", err)
	}
	log.Printf("cli: running %v", manager.Names())

	sigCtx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()
	log.Printf("cli: shutting down")

	shutCtx, cancelShut := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShut()
	manager.Stop(shutCtx)
	return nil
}

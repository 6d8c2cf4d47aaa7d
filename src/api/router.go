package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	sharedconfig "github.com/tlou-esports/te-suggestions/src/config"
	"github.com/tlou-esports/te-suggestions/src/logging"
	"github.com/tlou-esports/te-suggestions/src/reminders"
	"github.com/tlou-esports/te-suggestions/src/suggestions"
)

// SuggestionSource is the read side of the suggestion lifecycle.
type SuggestionSource interface {
	List(ctx context.Context, status suggestions.Status) ([]*suggestions.Record, error)
	Get(ctx context.Context, id int64) (*suggestions.Record, error)
}

// ReminderSource lists a guild's reminders.
type ReminderSource interface {
	List(ctx context.Context, guildID string) ([]reminders.Reminder, error)
}

// New builds the router. reminderSrc may be nil when reminders are disabled.
func New(cfg sharedconfig.APIConfig, suggestionSrc SuggestionSource, reminderSrc ReminderSource) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.CustomRecovery(func(c *gin.Context, recovered any) {
		_ = logging.ReportPanic("api", recovered, map[string]string{"path": c.FullPath()})
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"err": "internal error"})
	}))
	attachRoutes(g, cfg, suggestionSrc, reminderSrc)
	return g
}

func attachRoutes(r *gin.Engine, cfg sharedconfig.APIConfig, suggestionSrc SuggestionSource, reminderSrc ReminderSource) {
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.CORSOrigins,
			AllowMethods:  []string{"GET", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Authorization", "If-None-Match"},
			ExposeHeaders: []string{"Content-Length", "ETag"},
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	sugH := Suggestions{src: suggestionSrc, sanitizer: bluemonday.StrictPolicy()}
	remH := Reminders{src: reminderSrc}

	v1 := r.Group("/v1")
	v1.Use(JWTMiddleware([]byte(cfg.JWTSecret)))
	{
		v1.GET("/suggestions", sugH.List)
		v1.GET("/suggestions/:id", sugH.Get)
		v1.GET("/reminders/:guild", remH.List)
	}
}

func internalError(c *gin.Context, err error) {
	logging.Capture("api", fmt.Errorf("%s: %w", c.FullPath(), err), nil)
	c.JSON(http.StatusInternalServerError, gin.H{"err": "internal error"})
}

package logging

import (
	"fmt"
	"log"
	"runtime/debug"
	"time"

	sentry "github.com/getsentry/sentry-go"
)

var sentryEnabled bool

// SentryOptions configures error reporting. An empty DSN disables it.
type SentryOptions struct {
	DSN         string
	Environment string
	Release     string
	Debug       bool
}

// InitSentry initialises the Sentry client when a DSN is configured.
func InitSentry(opts SentryOptions) error {
	if opts.DSN == "" {
		log.Printf("logging: SENTRY_DSN not set, error tracking disabled")
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         opts.DSN,
		Environment: opts.Environment,
		Release:     opts.Release,
		Debug:       opts.Debug,
	})
	if err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	sentryEnabled = true
	return nil
}

// Flush waits for buffered events to be delivered.
func Flush() {
	if sentryEnabled {
		sentry.Flush(2 * time.Second)
	}
}

// Capture logs err and forwards it to Sentry with the given tags.
func Capture(component string, err error, tags map[string]string) {
	if err == nil {
		return
	}
	log.Printf("%s: %v", component, err)
	if !sentryEnabled {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", component)
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// Recover must be deferred. It turns a panic into a logged, reported error.
func Recover(component string) {
	r := recover()
	if r == nil {
		return
	}
	log.Printf("%s: recovered panic: %v", component, r)
	if sentryEnabled {
		sentry.CurrentHub().Recover(r)
	}
}

// ReportPanic logs and reports a value obtained from recover() and returns
// it as an error so callers can keep handling it.
func ReportPanic(component string, r any, tags map[string]string) error {
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}
	err = fmt.Errorf("panic: %w", err)
	log.Printf("%s: recovered %v\n%s", component, err, debug.Stack())
	if sentryEnabled {
		hub := sentry.CurrentHub().Clone()
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetTag("component", component)
			for k, v := range tags {
				scope.SetTag(k, v)
			}
		})
		hub.Recover(r)
	}
	return err
}

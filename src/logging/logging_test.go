package logging

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRateLimit(t *testing.T) {
	assert.False(t, IsRateLimit(nil))
	assert.False(t, IsRateLimit(errors.New("boom")))

	rl := &discordgo.RateLimitError{RateLimit: &discordgo.RateLimit{TooManyRequests: &discordgo.TooManyRequests{}, URL: "/channels"}}
	assert.True(t, IsRateLimit(fmt.Errorf("send: %w", rl)))

	rest := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusTooManyRequests}}
	assert.True(t, IsRateLimit(rest))
}

func TestIsUnknownMessage(t *testing.T) {
	rest := &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusNotFound},
		Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMessage, Message: "Unknown Message"},
	}
	assert.True(t, IsUnknownMessage(fmt.Errorf("delete: %w", rest)))
	assert.False(t, IsUnknownMessage(errors.New("Unknown Message")))
}

func TestInitSentryWithoutDSN(t *testing.T) {
	require.NoError(t, InitSentry(SentryOptions{}))
	assert.False(t, sentryEnabled)
	Capture("test", errors.New("not sent"), nil)
	Flush()
}

func TestReportPanic(t *testing.T) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = ReportPanic("test", r, map[string]string{"event": "x"})
			}
		}()
		panic("kaboom")
	}()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")

	sentinel := errors.New("typed")
	err = ReportPanic("test", sentinel, nil)
	assert.ErrorIs(t, err, sentinel)
}

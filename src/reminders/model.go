package reminders

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrValidation marks a rejected time or message.
var ErrValidation = errors.New("validation failed")

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// MinuteLayout is the format of LastFired.
const MinuteLayout = "2006-01-02 15:04"

// Reminder fires its message into a channel once a day at Time.
type Reminder struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GuildID   string    `gorm:"size:32;not null;index:idx_reminder_guild_time" json:"guild_id"`
	ChannelID string    `gorm:"size:32;not null" json:"channel_id"`
	Time      string    `gorm:"size:5;not null;index:idx_reminder_guild_time" json:"time"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedBy string    `gorm:"size:32" json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	LastFired string    `gorm:"size:16" json:"last_fired,omitempty"`
}

// ValidateTime accepts only zero-padded 24h HH:MM.
func ValidateTime(hhmm string) error {
	if !timePattern.MatchString(hhmm) {
		return fmt.Errorf("%w: time must be HH:MM in 24-hour format, got %q", ErrValidation, hhmm)
	}
	return nil
}

// Zone returns the fixed offset reminders are scheduled in.
func Zone(offsetHours int) *time.Location {
	name := fmt.Sprintf("GMT%+d", offsetHours)
	return time.FixedZone(name, offsetHours*3600)
}

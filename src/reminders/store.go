package reminders

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Store persists reminders through gorm.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the reminders table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Reminder{})
}

// Add stores a reminder. A non-empty mention is prepended to the message.
func (s *Store) Add(ctx context.Context, guildID, channelID, hhmm, message, mention, createdBy string) (*Reminder, error) {
	hhmm = strings.TrimSpace(hhmm)
	if err := ValidateTime(hhmm); err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is empty", ErrValidation)
	}
	if mention != "" {
		message = mention + " " + message
	}

	r := &Reminder{
		GuildID:   guildID,
		ChannelID: channelID,
		Time:      hhmm,
		Message:   message,
		CreatedBy: createdBy,
	}
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, fmt.Errorf("insert reminder: %w", err)
	}
	return r, nil
}

// List returns a guild's reminders ordered by time.
func (s *Store) List(ctx context.Context, guildID string) ([]Reminder, error) {
	var out []Reminder
	err := s.db.WithContext(ctx).
		Where("guild_id = ?", guildID).
		Order("time ASC").Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return out, nil
}

// Remove deletes every reminder of the guild at hhmm and reports how many went.
func (s *Store) Remove(ctx context.Context, guildID, hhmm string) (int64, error) {
	hhmm = strings.TrimSpace(hhmm)
	if err := ValidateTime(hhmm); err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).Where("guild_id = ? AND time = ?", guildID, hhmm).Delete(&Reminder{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete reminders: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// All returns every reminder across guilds.
func (s *Store) All(ctx context.Context) ([]Reminder, error) {
	var out []Reminder
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("load reminders: %w", err)
	}
	return out, nil
}

// Due returns reminders scheduled at hhmm.
func (s *Store) Due(ctx context.Context, hhmm string) ([]Reminder, error) {
	var out []Reminder
	if err := s.db.WithContext(ctx).Where("time = ?", hhmm).Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("load due reminders: %w", err)
	}
	return out, nil
}

// MarkFired records the minute a reminder was last sent.
func (s *Store) MarkFired(ctx context.Context, id uint, minute string) error {
	err := s.db.WithContext(ctx).Model(&Reminder{}).Where("id = ?", id).Update("last_fired", minute).Error
	if err != nil {
		return fmt.Errorf("mark reminder %d fired: %w", id, err)
	}
	return nil
}

package locales

import (
	"embed"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed *.json
var localeFS embed.FS

var (
	mu              sync.RWMutex
	bundle          *i18n.Bundle
	defaultLanguage = language.English
)

// Init loads the embedded message files. Safe to call more than once.
func Init(defaultLangCode string) error {
	tag, err := language.Parse(defaultLangCode)
	if err != nil {
		log.Printf("locales: parse default language %q: %v (using en)", defaultLangCode, err)
		tag = language.English
	}

	b := i18n.NewBundle(tag)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir(".")
	if err != nil {
		return fmt.Errorf("locales: read embedded files: %w", err)
	}
	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if _, err := b.LoadMessageFileFS(localeFS, entry.Name()); err != nil {
			return fmt.Errorf("locales: load %s: %w", entry.Name(), err)
		}
		loaded++
	}
	if loaded == 0 {
		return fmt.Errorf("locales: no message files embedded")
	}

	mu.Lock()
	bundle = b
	defaultLanguage = tag
	mu.Unlock()
	return nil
}

func currentBundle() *i18n.Bundle {
	mu.RLock()
	b := bundle
	mu.RUnlock()
	if b != nil {
		return b
	}
	if err := Init(language.English.String()); err != nil {
		log.Panicf("locales: %v", err)
	}
	mu.RLock()
	defer mu.RUnlock()
	return bundle
}

// Localizer renders messages for one set of language preferences, usually
// the Discord locale of the invoking user.
type Localizer struct {
	l *i18n.Localizer
}

func NewLocalizer(langPrefs ...string) *Localizer {
	b := currentBundle()
	mu.RLock()
	prefs := append(append([]string{}, langPrefs...), defaultLanguage.String())
	mu.RUnlock()
	return &Localizer{l: i18n.NewLocalizer(b, prefs...)}
}

// T renders msgID with optional template data. Missing ids render as the id.
func (l *Localizer) T(msgID string, data map[string]any) string {
	return l.localize(&i18n.LocalizeConfig{MessageID: msgID, TemplateData: data})
}

// Plural renders msgID choosing the plural form for count.
func (l *Localizer) Plural(msgID string, count int, data map[string]any) string {
	if data == nil {
		data = map[string]any{}
	}
	data["PluralCount"] = count
	return l.localize(&i18n.LocalizeConfig{MessageID: msgID, TemplateData: data, PluralCount: count})
}

func (l *Localizer) localize(cfg *i18n.LocalizeConfig) string {
	msg, err := l.l.Localize(cfg)
	if err != nil {
		log.Printf("locales: localize %q: %v", cfg.MessageID, err)
		if msg != "" {
			return msg
		}
		return cfg.MessageID
	}
	return msg
}

// T renders msgID in the default language.
func T(msgID string, data map[string]any) string {
	return NewLocalizer().T(msgID, data)
}

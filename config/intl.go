package config

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLocale is the catalog every other locale falls back to
const DefaultLocale = "en-CA"

//go:embed locales/*
var localeFS embed.FS

// Intl resolves UI message keys to localized strings
type Intl interface {
	Get(key string) string
	Locale() string
}

// Localizer is the go-i18n backed Intl implementation
type Localizer struct {
	localizer *i18n.Localizer
	tag       language.Tag
}

var _ Intl = (*Localizer)(nil)

// NewIntl loads the embedded message catalogs and returns a localizer for
// locale, falling back to DefaultLocale for missing messages
func NewIntl(locale string) (*Localizer, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}

	bundle := i18n.NewBundle(language.MustParse(DefaultLocale))
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(localeFS, "locales/*")
	if err != nil {
		return nil, fmt.Errorf("failed to list message files: %w", err)
	}
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, fmt.Errorf("failed to load message file %s: %w", file, err)
		}
	}

	return &Localizer{
		localizer: i18n.NewLocalizer(bundle, tag.String(), DefaultLocale),
		tag:       tag,
	}, nil
}

// Get returns the message for key, or the key itself when no catalog has it.
// A message missing from the active locale but present in the default
// catalog comes back together with a not-found error; the text still wins.
func (l *Localizer) Get(key string) string {
	msg, _ := l.localizer.Localize(&i18n.LocalizeConfig{MessageID: key})
	if msg == "" {
		return key
	}
	return msg
}

// Locale returns the BCP 47 tag of the active locale
func (l *Localizer) Locale() string {
	return l.tag.String()
}

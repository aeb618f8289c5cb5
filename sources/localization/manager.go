package localization

import (
	"embed"
	"fmt"
	"strings"

	"domainhub/sources/configuration"
	"domainhub/sources/tracing"

	"github.com/BurntSushi/toml"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localesFS embed.FS

type LocalizationManager struct {
	bundle    *i18n.Bundle
	config    *configuration.LocalizationConfig
	supported []language.Tag
	matcher   language.Matcher
	log       *tracing.Logger
}

func NewLocalizationManager(config *configuration.Config, log *tracing.Logger) (*LocalizationManager, error) {
	cfg := &config.Localization

	fallback, err := language.Parse(cfg.DefaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("invalid default language %q: %w", cfg.DefaultLanguage, err)
	}

	bundle := i18n.NewBundle(fallback)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	supported := []language.Tag{fallback}
	for _, lang := range cfg.SupportedLanguages {
		filename := fmt.Sprintf("locales/active.%s.toml", lang)

		data, err := localesFS.ReadFile(filename)
		if err != nil {
			log.E("Failed to read locale file", "filename", filename, tracing.InnerError, err)
			return nil, fmt.Errorf("failed to read locale file %s: %w", filename, err)
		}

		file, err := bundle.ParseMessageFileBytes(data, filename)
		if err != nil {
			log.E("Failed to parse locale file", "filename", filename, tracing.InnerError, err)
			return nil, fmt.Errorf("failed to parse locale file %s: %w", filename, err)
		}

		if file.Tag != fallback {
			supported = append(supported, file.Tag)
		}
		log.I("Loaded locale file", "filename", filename)
	}

	log.I("LocalizationManager initialized successfully", "languages", len(supported))
	return &LocalizationManager{
		bundle:    bundle,
		config:    cfg,
		supported: supported,
		matcher:   language.NewMatcher(supported),
		log:       log,
	}, nil
}

// Tag resolves a Telegram language_code to the closest supported language.
func (x *LocalizationManager) Tag(languageCode string) language.Tag {
	code := strings.TrimSpace(languageCode)
	if code == "" {
		return x.supported[0]
	}

	_, index, confidence := x.matcher.Match(language.Make(code))
	if confidence == language.No {
		return x.supported[0]
	}
	return x.supported[index]
}

func (x *LocalizationManager) TagOf(user *tgbotapi.User) language.Tag {
	if user == nil {
		return x.supported[0]
	}
	return x.Tag(user.LanguageCode)
}

func (x *LocalizationManager) GetLocalizer(languageCode string) *i18n.Localizer {
	return i18n.NewLocalizer(x.bundle, x.Tag(languageCode).String(), x.config.DefaultLanguage)
}

func (x *LocalizationManager) Localize(localizer *i18n.Localizer, messageID string) string {
	return x.LocalizeTd(localizer, messageID, nil)
}

func (x *LocalizationManager) LocalizeTd(localizer *i18n.Localizer, messageID string, templateData map[string]interface{}) string {
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: messageID, TemplateData: templateData})
	if err != nil {
		x.log.E("Failed to localize message", "message_id", messageID, tracing.InnerError, err)
		return messageID
	}

	return msg
}

// LocalizeCount picks the plural form for count; templateData gets Count set.
func (x *LocalizationManager) LocalizeCount(user *tgbotapi.User, messageID string, count int, templateData map[string]interface{}) string {
	if templateData == nil {
		templateData = map[string]interface{}{}
	}
	templateData["Count"] = count

	msg, err := x.localizerOf(user).Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: templateData,
		PluralCount:  count,
	})
	if err != nil {
		x.log.E("Failed to localize message", "message_id", messageID, tracing.InnerError, err)
		return messageID
	}

	return msg
}

func (x *LocalizationManager) LocalizeBy(user *tgbotapi.User, messageID string) string {
	return x.LocalizeByTd(user, messageID, nil)
}

func (x *LocalizationManager) LocalizeByTd(user *tgbotapi.User, messageID string, templateData map[string]interface{}) string {
	return x.LocalizeTd(x.localizerOf(user), messageID, templateData)
}

func (x *LocalizationManager) localizerOf(user *tgbotapi.User) *i18n.Localizer {
	code := ""
	if user != nil {
		code = user.LanguageCode
	}
	return x.GetLocalizer(code)
}

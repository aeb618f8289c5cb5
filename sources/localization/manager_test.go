package localization

import (
	"testing"

	"domainhub/sources/configuration"
	"domainhub/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func newManager(t *testing.T) *LocalizationManager {
	t.Helper()
	manager, err := NewLocalizationManager(configuration.Defaults(), tracing.NewNopLogger())
	require.NoError(t, err)
	return manager
}

func TestTagMatchesTelegramLanguageCode(t *testing.T) {
	manager := newManager(t)

	assert.Equal(t, language.Russian, manager.Tag("ru"))
	assert.Equal(t, language.Russian, manager.Tag("ru-RU"))
	assert.Equal(t, language.English, manager.Tag("en-GB"))
	assert.Equal(t, language.English, manager.Tag("de"))
	assert.Equal(t, language.English, manager.Tag(""))
}

func TestLocalizeByUserLanguage(t *testing.T) {
	manager := newManager(t)

	assert.Equal(t, "Заявка отменена.", manager.LocalizeBy(&tgbotapi.User{LanguageCode: "ru"}, "MsgCancelled"))
	assert.Equal(t, "Request cancelled.", manager.LocalizeBy(&tgbotapi.User{LanguageCode: "fr"}, "MsgCancelled"))
	assert.Equal(t, "Request cancelled.", manager.LocalizeBy(nil, "MsgCancelled"))
}

func TestLocalizeTemplatesAndPlurals(t *testing.T) {
	manager := newManager(t)
	ru := &tgbotapi.User{LanguageCode: "ru"}
	en := &tgbotapi.User{LanguageCode: "en"}

	assert.Equal(t, "Please request at most 50 domains at once.",
		manager.LocalizeByTd(en, "MsgRequestTooMany", map[string]interface{}{"Max": 50}))

	assert.Equal(t, "1 day ago", manager.LocalizeCount(en, "AgeifyDaysAgo", 1, nil))
	assert.Equal(t, "3 days ago", manager.LocalizeCount(en, "AgeifyDaysAgo", 3, nil))
	assert.Equal(t, "3 дня назад", manager.LocalizeCount(ru, "AgeifyDaysAgo", 3, nil))
	assert.Equal(t, "5 дней назад", manager.LocalizeCount(ru, "AgeifyDaysAgo", 5, nil))
}

func TestUnknownMessageFallsBackToID(t *testing.T) {
	manager := newManager(t)
	assert.Equal(t, "MsgDoesNotExist", manager.LocalizeBy(nil, "MsgDoesNotExist"))
}

package format

import (
	"testing"
	"time"

	"domainhub/sources/configuration"
	"domainhub/sources/localization"
	"domainhub/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestCurrencify(t *testing.T) {
	price := decimal.RequireFromString("1250.5")

	assert.Equal(t, "$1,250.50", Currencify(language.English, price))
	assert.Equal(t, "$0.00", Currencify(language.English, decimal.Zero))
	assert.Equal(t, "12,345", Numberify(language.English, 12345))
}

func TestAgeify(t *testing.T) {
	manager, err := localization.NewLocalizationManager(configuration.Defaults(), tracing.NewNopLogger())
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	formatter := NewDateTimeFormatter(manager)
	formatter.now = func() time.Time { return now }

	en := &tgbotapi.User{LanguageCode: "en"}

	assert.Equal(t, "today", formatter.Ageify(en, now.Add(-2*time.Hour)))
	assert.Equal(t, "2 days ago", formatter.Ageify(en, now.AddDate(0, 0, -2)))
	assert.Equal(t, "1 week ago", formatter.Ageify(en, now.AddDate(0, 0, -8)))
	assert.Equal(t, "2 months ago", formatter.Ageify(en, now.AddDate(0, 0, -65)))
	assert.Equal(t, "1 year ago", formatter.Ageify(en, now.AddDate(0, 0, -400)))
}

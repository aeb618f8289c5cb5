package format

import (
	"time"

	"domainhub/sources/localization"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type DateTimeFormatter struct {
	localization *localization.LocalizationManager
	now          func() time.Time
}

func NewDateTimeFormatter(localization *localization.LocalizationManager) *DateTimeFormatter {
	return &DateTimeFormatter{
		localization: localization,
		now:          time.Now,
	}
}

func (f *DateTimeFormatter) Ageify(user *tgbotapi.User, createdAt time.Time) string {
	age := f.now().Sub(createdAt)

	days := int(age.Hours() / 24)

	if days <= 0 {
		return f.localization.LocalizeBy(user, "AgeifyToday")
	}

	if days < 7 {
		return f.localization.LocalizeCount(user, "AgeifyDaysAgo", days, nil)
	}

	weeks := days / 7
	if weeks < 5 {
		return f.localization.LocalizeCount(user, "AgeifyWeeksAgo", weeks, nil)
	}

	months := days / 30
	if months < 12 {
		return f.localization.LocalizeCount(user, "AgeifyMonthsAgo", months, nil)
	}

	years := days / 365
	return f.localization.LocalizeCount(user, "AgeifyYearsAgo", years, nil)
}

package telegram

import (
	"domainhub/sources/metrics"
	"domainhub/sources/texting"
	"domainhub/sources/texting/transform"
	"domainhub/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Diplomat sends bot replies: plain text is split into chunks that stay within
// the chunk size once escaped for MarkdownV2, and the keyboard goes on the
// last chunk.
type Diplomat struct {
	bot      BotClient
	settings *BotSettings
	metrics  *metrics.MetricsService
}

func NewDiplomat(bot BotClient, settings *BotSettings, metrics *metrics.MetricsService) *Diplomat {
	return &Diplomat{bot: bot, settings: settings, metrics: metrics}
}

func (x *Diplomat) SendText(logger *tracing.Logger, chatID int64, text string, markup any) error {
	defer tracing.ProfilePoint(logger, "Diplomat send text completed", "diplomat.send_text")()

	chunks := transform.ChunksBy(text, x.settings.ChunkSize, texting.EscapedWidth)
	for i, chunk := range chunks {
		msg := tgbotapi.NewMessage(chatID, texting.EscapeMarkdown(chunk))
		msg.ParseMode = tgbotapi.ModeMarkdownV2
		msg.DisableWebPagePreview = true

		if i == len(chunks)-1 && markup != nil {
			msg.ReplyMarkup = markup
		}

		if _, err := x.bot.Send(msg); err != nil {
			logger.E("Message chunk sending error", tracing.InnerError, err)
			x.metrics.RecordMessageSent("error")
			return err
		}
		x.metrics.RecordMessageSent("success")
	}
	return nil
}

func (x *Diplomat) Reply(logger *tracing.Logger, msg *tgbotapi.Message, text string, markup any) {
	if err := x.SendText(logger, msg.Chat.ID, text, markup); err != nil {
		logger.W("Failed to reply", tracing.InnerError, err)
	}
}

func (x *Diplomat) AnswerCallback(logger *tracing.Logger, query *tgbotapi.CallbackQuery, text string) {
	if _, err := x.bot.Request(tgbotapi.NewCallback(query.ID, text)); err != nil {
		logger.W("Failed to answer callback", tracing.InnerError, err)
	}
}

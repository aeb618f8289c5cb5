package telegram

import (
	"domainhub/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Poller struct {
	bot      *tgbotapi.BotAPI
	log      *tracing.Logger
	config   *PollerConfig
	diplomat *Diplomat
	handler  *TelegramHandler
	joins    *JoinApprover
}

func NewPoller(bot *tgbotapi.BotAPI, log *tracing.Logger, diplomat *Diplomat, config *PollerConfig, handler *TelegramHandler, joins *JoinApprover) *Poller {
	return &Poller{bot: bot, log: log, diplomat: diplomat, config: config, handler: handler, joins: joins}
}

func (x *Poller) Start() {
	if x.bot == nil {
		return
	}

	update := tgbotapi.NewUpdate(0)
	update.Timeout = x.config.Timeout
	update.AllowedUpdates = x.config.AllowedUpdates

	for update := range x.bot.GetUpdatesChan(update) {
		x.Dispatch(update)
	}
}

// Dispatch routes one update to its handler.
func (x *Poller) Dispatch(update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		msg := update.Message
		user := update.SentFrom()
		x.handler.metrics.RecordBotUpdate(tgbotapi.UpdateTypeMessage)

		log := x.log.With(
			tracing.UpdateKind, tgbotapi.UpdateTypeMessage,
			tracing.ChatType, msg.Chat.Type,
			tracing.ChatId, msg.Chat.ID,
			tracing.MessageId, msg.MessageID,
			tracing.MessageDate, msg.Date,
		)
		if user != nil {
			log = log.With(tracing.UserId, user.ID, tracing.UserName, user.UserName)
		}

		if err := x.handler.HandleMessage(log, msg); err != nil {
			log.E("Failed to handle message", tracing.InnerError, err)
			x.diplomat.Reply(log, msg, x.handler.localization.LocalizeBy(msg.From, "MsgErrorGeneric"), nil)
			return
		}
		log.I("Message handled")

	case update.CallbackQuery != nil:
		query := update.CallbackQuery
		x.handler.metrics.RecordBotUpdate(tgbotapi.UpdateTypeCallbackQuery)

		log := x.log.With(
			tracing.UpdateKind, tgbotapi.UpdateTypeCallbackQuery,
			tracing.UserId, query.From.ID,
			tracing.UserName, query.From.UserName,
		)

		if err := x.handler.HandleCallback(log, query); err != nil {
			log.E("Failed to handle callback", tracing.InnerError, err)
			if query.Message != nil {
				x.diplomat.Reply(log, query.Message, x.handler.localization.LocalizeBy(query.From, "MsgErrorGeneric"), nil)
			}
			return
		}
		log.I("Callback handled")

	case update.ChatJoinRequest != nil:
		request := update.ChatJoinRequest
		x.handler.metrics.RecordBotUpdate(updateTypeChatJoinRequest)

		log := x.log.With(
			tracing.UpdateKind, updateTypeChatJoinRequest,
			tracing.ChatId, request.Chat.ID,
			tracing.UserId, request.From.ID,
			tracing.UserName, request.From.UserName,
		)
		x.joins.HandleJoinRequest(log, request)

	default:
		x.handler.metrics.RecordBotUpdate("other")
	}
}

func (x *Poller) Stop() {
	if x.bot != nil {
		x.bot.StopReceivingUpdates()
	}
	x.joins.Stop()
}

package telegram

import (
	"net/http"

	"domainhub/sources/configuration"
	"domainhub/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotClient is the part of the Bot API the handlers use.
type BotClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

// NewBotAPI connects to the Bot API through client. It returns nil when the
// bot is disabled.
func NewBotAPI(log *tracing.Logger, config *configuration.Config, client *http.Client) (*tgbotapi.BotAPI, error) {
	if !config.Telegram.Enabled {
		log.I("Telegram bot disabled")
		return nil, nil
	}

	endpoint := tgbotapi.APIEndpoint
	if config.Telegram.APIEndpoint != "" {
		endpoint = config.Telegram.APIEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithClient(config.Telegram.BotToken, endpoint, client)
	if err != nil {
		log.E("Failed to initialize telegram bot", tracing.InnerError, err)
		return nil, err
	}

	log.I("Telegram bot initialized", tracing.UserName, bot.Self.UserName, "api_endpoint", endpoint)
	return bot, nil
}

func NewBotClient(bot *tgbotapi.BotAPI) BotClient {
	if bot == nil {
		return nil
	}
	return bot
}

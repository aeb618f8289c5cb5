package telegram

import (
	"time"

	"domainhub/sources/configuration"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const updateTypeChatJoinRequest = "chat_join_request"

type PollerConfig struct {
	Timeout        int
	AllowedUpdates []string
}

type BotSettings struct {
	ChannelID         int64
	ChannelInviteLink string
	SupportURL        string
	WebAppURL         string
	JoinApprovalDelay time.Duration
	ChunkSize         int
	MaxLeadDomains    int
	LeadDedupeWindow  time.Duration
}

func NewPollerConfig(config *configuration.Config) *PollerConfig {
	return &PollerConfig{
		Timeout: config.Telegram.PollerTimeout,
		AllowedUpdates: []string{
			tgbotapi.UpdateTypeMessage,
			tgbotapi.UpdateTypeCallbackQuery,
			updateTypeChatJoinRequest,
		},
	}
}

func NewBotSettings(config *configuration.Config) *BotSettings {
	chunk := config.Telegram.DiplomatChunkSize
	if chunk <= 0 {
		chunk = 4096
	}

	return &BotSettings{
		ChannelID:         config.Telegram.ChannelID.Int64(),
		ChannelInviteLink: config.Telegram.ChannelInviteLink,
		SupportURL:        config.Telegram.SupportURL,
		WebAppURL:         config.Telegram.WebAppURL,
		JoinApprovalDelay: config.Telegram.JoinApprovalDelay,
		ChunkSize:         chunk,
		MaxLeadDomains:    config.Market.MaxLeadDomains,
		LeadDedupeWindow:  config.Market.LeadDedupeWindow,
	}
}

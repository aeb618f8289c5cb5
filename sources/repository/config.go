package repository

import (
	"time"

	"domainhub/sources/platform"
)

type ChatStateConfig struct {
	TTL time.Duration
}

func NewChatStateConfig() *ChatStateConfig {
	return &ChatStateConfig{
		TTL: platform.GetAsDuration("CHAT_STATE_TTL", "10m"),
	}
}

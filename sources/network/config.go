package network

import (
	"time"

	"domainhub/sources/configuration"
)

type ProxyConfig struct {
	ProxyAddress string
	ProxyUser    string
	ProxyPass    string
	Timeout      time.Duration
}

// NewProxyConfig derives the Bot API client settings. The client timeout
// outlives one long-poll request.
func NewProxyConfig(config *configuration.Config) *ProxyConfig {
	return &ProxyConfig{
		ProxyAddress: config.Telegram.Proxy.Address,
		ProxyUser:    config.Telegram.Proxy.User,
		ProxyPass:    config.Telegram.Proxy.Password,
		Timeout:      time.Duration(config.Telegram.PollerTimeout)*time.Second + 30*time.Second,
	}
}

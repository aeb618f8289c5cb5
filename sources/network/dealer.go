package network

import (
	"fmt"

	"domainhub/sources/tracing"

	"golang.org/x/net/proxy"
)

// NewProxyDialer returns a SOCKS5 dialer when a proxy address is configured
// and a direct dialer otherwise.
func NewProxyDialer(config *ProxyConfig, log *tracing.Logger) (proxy.Dialer, error) {
	if config.ProxyAddress == "" {
		log.I("Telegram proxy not configured, dialing directly")
		return proxy.Direct, nil
	}

	var auth *proxy.Auth
	if config.ProxyUser != "" {
		auth = &proxy.Auth{User: config.ProxyUser, Password: config.ProxyPass}
	}

	dialer, err := proxy.SOCKS5("tcp", config.ProxyAddress, auth, proxy.Direct)
	if err != nil {
		log.E("Failed to create proxy dialer", tracing.InnerError, err)
		return nil, fmt.Errorf("failed to create proxy dialer: %w", err)
	}

	log.I("Telegram proxy configured", tracing.ProxyUrl, config.ProxyAddress)
	return dialer, nil
}

package features

import (
	"context"
	"time"

	"domainhub/sources/configuration"
	"domainhub/sources/tracing"

	"github.com/Unleash/unleash-client-go/v4"
)

const (
	FeatureMembershipGate    = "bot/membership-gate"
	FeatureJoinAutoApprove   = "bot/join-requests/auto-approve"
	FeatureLeadRelay         = "bot/leads/relay"
	FeatureImportSpreadsheet = "api/import/spreadsheet"
)

// Defaults are the values every known flag takes when Unleash has no say.
var Defaults = map[string]bool{
	FeatureMembershipGate:    true,
	FeatureJoinAutoApprove:   true,
	FeatureLeadRelay:         true,
	FeatureImportSpreadsheet: true,
}

// FeatureManager answers toggle lookups. Without an Unleash URL every flag
// resolves to the caller's default, unless an override is set.
type FeatureManager struct {
	client    *unleash.Client
	overrides map[string]bool
	log       *tracing.Logger
}

func NewFeatureManager(config *configuration.Config, log *tracing.Logger) (*FeatureManager, error) {
	cfg := config.Features
	if cfg.UnleashAPIURL == "" {
		log.I("Unleash is not configured, feature toggles use defaults")
		return &FeatureManager{log: log}, nil
	}

	client, err := unleash.NewClient(
		unleash.WithUrl(cfg.UnleashAPIURL),
		unleash.WithAppName(cfg.UnleashAppName),
		unleash.WithInstanceId(cfg.UnleashInstanceID),
		unleash.WithRefreshInterval(time.Duration(cfg.RefreshInterval)*time.Second),
		unleash.WithListener(&unleashListener{log: log}),
	)

	if err != nil {
		log.E("Failed to initialize Unleash client", tracing.InnerError, err)
		return nil, err
	}

	log.I("Unleash client initialized successfully",
		"api_url", cfg.UnleashAPIURL,
		"app_name", cfg.UnleashAppName,
		"instance_id", cfg.UnleashInstanceID,
		"refresh_interval", cfg.RefreshInterval,
	)

	return &FeatureManager{
		client: client,
		log:    log,
	}, nil
}

// NewStaticFeatureManager pins flags to fixed values. Flags not listed use
// the caller's default.
func NewStaticFeatureManager(log *tracing.Logger, overrides map[string]bool) *FeatureManager {
	return &FeatureManager{overrides: overrides, log: log}
}

func (f *FeatureManager) IsEnabled(featureName string) bool {
	return f.IsEnabledDefault(featureName, false)
}

// Enabled evaluates a known flag with its entry in Defaults.
func (f *FeatureManager) Enabled(featureName string) bool {
	return f.IsEnabledDefault(featureName, Defaults[featureName])
}

func (f *FeatureManager) IsEnabledDefault(featureName string, defaultValue bool) bool {
	if value, ok := f.overrides[featureName]; ok {
		return value
	}
	if f.client == nil {
		return defaultValue
	}
	return f.client.IsEnabled(featureName, unleash.WithFallback(defaultValue))
}

// Snapshot evaluates every known flag against its default.
func (f *FeatureManager) Snapshot() map[string]bool {
	snapshot := make(map[string]bool, len(Defaults))
	for name, def := range Defaults {
		snapshot[name] = f.IsEnabledDefault(name, def)
	}
	return snapshot
}

func (f *FeatureManager) Close() error {
	if f.client == nil {
		return nil
	}
	f.log.I("Closing Unleash client")
	return f.client.Close()
}

type unleashListener struct {
	log *tracing.Logger
}

func (l *unleashListener) OnReady() {
	l.log.I("Unleash client ready")
}

func (l *unleashListener) OnError(err error) {
	l.log.E("Unleash client error", tracing.InnerError, err)
}

func (l *unleashListener) OnWarning(warning error) {
	l.log.W("Unleash client warning", tracing.InnerError, warning)
}

func (l *unleashListener) OnCount(name string, enabled bool) {
	l.log.D("Feature evaluated", tracing.FeatureName, name, "enabled", enabled)
}

func (l *unleashListener) OnSent(payload unleash.MetricsData) {
}

func (l *unleashListener) OnRegistered(payload unleash.ClientData) {
	l.log.I("Unleash client registered", "instance_id", payload.InstanceID)
}

func (f *FeatureManager) OnStop(ctx context.Context) error {
	return f.Close()
}

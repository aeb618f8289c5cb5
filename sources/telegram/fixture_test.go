package telegram

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"domainhub/sources/configuration"
	"domainhub/sources/features"
	"domainhub/sources/localization"
	"domainhub/sources/market"
	"domainhub/sources/metrics"
	"domainhub/sources/persistence"
	"domainhub/sources/persistence/testdb"
	"domainhub/sources/realtime"
	"domainhub/sources/repository"
	"domainhub/sources/texting"
	"domainhub/sources/texting/format"
	"domainhub/sources/throttler"
	"domainhub/sources/tracing"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
)

const testChannelID int64 = -1001234567890

type fakeBot struct {
	mu          sync.Mutex
	sent        []tgbotapi.MessageConfig
	requests    []tgbotapi.Chattable
	member      tgbotapi.ChatMember
	memberErr   error
	approveErrs []error
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		b.sent = append(b.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.requests = append(b.requests, c)
	if _, ok := c.(tgbotapi.ApproveChatJoinRequestConfig); ok && len(b.approveErrs) > 0 {
		err := b.approveErrs[0]
		b.approveErrs = b.approveErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.member, b.memberErr
}

func (b *fakeBot) texts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	texts := make([]string, 0, len(b.sent))
	for _, msg := range b.sent {
		texts = append(texts, msg.Text)
	}
	return texts
}

func (b *fakeBot) last() tgbotapi.MessageConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sent[len(b.sent)-1]
}

func (b *fakeBot) approvals() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, c := range b.requests {
		if _, ok := c.(tgbotapi.ApproveChatJoinRequestConfig); ok {
			n++
		}
	}
	return n
}

func (b *fakeBot) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = nil
	b.requests = nil
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, realtime.Event) {}

type fixture struct {
	t            *testing.T
	bot          *fakeBot
	handler      *TelegramHandler
	joins        *JoinApprover
	poller       *Poller
	localization *localization.LocalizationManager
	subscribers  *repository.SubscribersRepository
	tickets      *repository.TicketsRepository
	throttler    *throttler.Throttler
	user         *tgbotapi.User
}

func newFixture(t *testing.T, flags map[string]bool) *fixture {
	t.Helper()

	db := testdb.New(t)
	log := tracing.NewNopLogger()
	config := configuration.Defaults()

	loc, err := localization.NewLocalizationManager(config, log)
	require.NoError(t, err)

	bot := &fakeBot{member: tgbotapi.ChatMember{Status: "member"}}
	settings := NewBotSettings(config)
	settings.ChannelID = testChannelID
	settings.ChannelInviteLink = "https://t.me/+invite"
	settings.SupportURL = "https://t.me/support"
	settings.WebAppURL = "https://shop.example.com"
	settings.JoinApprovalDelay = 0

	metricsService := metrics.NewMetricsService(log)
	fm := features.NewStaticFeatureManager(log, flags)
	kv := persistence.NewMemoryKeyValue()
	claims := throttler.NewThrottler(kv, &throttler.ThrottlerConfig{JoinClaimTTL: time.Hour}, log)

	domainsRepo := repository.NewDomainsRepository(db)
	tickets := repository.NewTicketsRepository(db)
	subscribers := repository.NewSubscribersRepository(db)
	chatState := repository.NewChatStateRepository(kv, &repository.ChatStateConfig{TTL: time.Hour})

	diplomat := NewDiplomat(bot, settings, metricsService)
	gate := NewMembershipGate(bot, settings, fm, subscribers, loc, diplomat, metricsService)
	handler := NewTelegramHandler(
		diplomat,
		gate,
		settings,
		subscribers,
		tickets,
		chatState,
		market.NewMarket(config, domainsRepo, tickets, metricsService, nopNotifier{}),
		claims,
		fm,
		loc,
		format.NewDateTimeFormatter(loc),
		metricsService,
	)

	joins := NewJoinApprover(bot, settings, fm, claims, subscribers, loc, diplomat, metricsService, log)
	joins.backoff = func(ctx context.Context) backoff.BackOff {
		return backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 3), ctx)
	}
	t.Cleanup(joins.Stop)

	return &fixture{
		t:            t,
		bot:          bot,
		handler:      handler,
		joins:        joins,
		poller:       NewPoller(nil, log, diplomat, NewPollerConfig(config), handler, joins),
		localization: loc,
		subscribers:  subscribers,
		tickets:      tickets,
		throttler:    claims,
		user:         &tgbotapi.User{ID: 4242, FirstName: "Ada", UserName: "ada", LanguageCode: "en"},
	}
}

func (f *fixture) message(text string) *tgbotapi.Message {
	msg := &tgbotapi.Message{
		MessageID: 1,
		From:      f.user,
		Chat:      &tgbotapi.Chat{ID: f.user.ID, Type: "private"},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		length := len(text)
		if i := strings.IndexByte(text, ' '); i >= 0 {
			length = i
		}
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}}
	}
	return msg
}

func (f *fixture) send(text string) {
	f.t.Helper()
	require.NoError(f.t, f.handler.HandleMessage(tracing.NewNopLogger(), f.message(text)))
}

func (f *fixture) press(data string) {
	f.t.Helper()
	query := &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		From:    f.user,
		Message: &tgbotapi.Message{MessageID: 2, Chat: &tgbotapi.Chat{ID: f.user.ID, Type: "private"}},
		Data:    data,
	}
	require.NoError(f.t, f.handler.HandleCallback(tracing.NewNopLogger(), query))
}

// text renders a localized message the way the diplomat sends it.
func (f *fixture) text(id string, data map[string]interface{}) string {
	return texting.EscapeMarkdown(f.localization.LocalizeByTd(f.user, id, data))
}

package telegram

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"domainhub/sources/features"
	"domainhub/sources/localization"
	"domainhub/sources/metrics"
	"domainhub/sources/persistence/entities"
	"domainhub/sources/repository"
	"domainhub/sources/throttler"
	"domainhub/sources/tracing"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const joinApprovalAttempts = 5

// JoinApprover records channel join requests and approves them after a delay.
// A claim in the shared store makes sure only one instance approves each
// request.
type JoinApprover struct {
	bot          BotClient
	settings     *BotSettings
	features     *features.FeatureManager
	throttler    *throttler.Throttler
	subscribers  *repository.SubscribersRepository
	localization *localization.LocalizationManager
	diplomat     *Diplomat
	metrics      *metrics.MetricsService
	log          *tracing.Logger

	backoff func(ctx context.Context) backoff.BackOff

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewJoinApprover(
	bot BotClient,
	settings *BotSettings,
	features *features.FeatureManager,
	throttler *throttler.Throttler,
	subscribers *repository.SubscribersRepository,
	localization *localization.LocalizationManager,
	diplomat *Diplomat,
	metrics *metrics.MetricsService,
	log *tracing.Logger,
) *JoinApprover {
	ctx, cancel := context.WithCancel(context.Background())

	return &JoinApprover{
		bot:          bot,
		settings:     settings,
		features:     features,
		throttler:    throttler,
		subscribers:  subscribers,
		localization: localization,
		diplomat:     diplomat,
		metrics:      metrics,
		log:          log,
		backoff:      defaultApprovalBackoff,
		ctx:          ctx,
		cancel:       cancel,
	}
}

func defaultApprovalBackoff(ctx context.Context) backoff.BackOff {
	return backoff.WithContext(backoff.WithMaxRetries(&backoff.ExponentialBackOff{
		InitialInterval:     time.Second,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          2,
		MaxInterval:         30 * time.Second,
		MaxElapsedTime:      5 * time.Minute,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}, joinApprovalAttempts), ctx)
}

func (x *JoinApprover) HandleJoinRequest(log *tracing.Logger, request *tgbotapi.ChatJoinRequest) {
	defer tracing.ProfilePoint(log, "Join request handled", "telegram.join.request")()

	if x.settings.ChannelID != 0 && request.Chat.ID != x.settings.ChannelID {
		log.D("Ignoring join request to another chat")
		return
	}

	from := request.From
	if _, err := x.subscribers.UpsertSubscriber(x.ctx, log, subscriberOf(&from)); err != nil {
		log.W("Failed to record join request subscriber", tracing.InnerError, err)
	}

	if !x.features.Enabled(features.FeatureJoinAutoApprove) {
		log.I("Join request auto approval disabled")
		x.metrics.RecordJoinApproval("disabled")
		return
	}

	x.wg.Add(1)
	go func() {
		defer x.wg.Done()
		x.approve(log, request.Chat.ID, from)
	}()
}

func (x *JoinApprover) approve(log *tracing.Logger, chatID int64, user tgbotapi.User) {
	if delay := x.settings.JoinApprovalDelay; delay > 0 {
		select {
		case <-x.ctx.Done():
			return
		case <-time.After(delay):
		}
	}

	if !x.throttler.ClaimJoinRequest(chatID, user.ID) {
		log.I("Join request already claimed")
		x.metrics.RecordJoinApproval("duplicate")
		return
	}

	operation := func() error {
		_, err := x.bot.Request(tgbotapi.ApproveChatJoinRequestConfig{
			ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
			UserID:     user.ID,
		})
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == 400 {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		log.W("Join approval failed, retrying", tracing.InnerError, err, "retry_in", next.String())
	}

	if err := backoff.RetryNotify(operation, x.backoff(x.ctx), notify); err != nil {
		log.E("Failed to approve join request", tracing.InnerError, err)
		x.metrics.RecordJoinApproval("failed")
		x.throttler.Release(throttler.JoinRequestKey(chatID, user.ID))
		return
	}

	log.I("Join request approved")
	x.metrics.RecordJoinApproval("approved")

	if err := x.subscribers.SetMembership(x.ctx, log, strconv.FormatInt(user.ID, 10), true); err != nil {
		log.W("Failed to record membership", tracing.InnerError, err)
	}

	if err := x.diplomat.SendText(log, user.ID, x.localization.LocalizeBy(&user, "MsgJoinApproved"), nil); err != nil {
		log.W("Failed to greet approved member", tracing.InnerError, err)
	}
}

// Wait blocks until every scheduled approval has finished.
func (x *JoinApprover) Wait() {
	x.wg.Wait()
}

// Stop abandons pending approvals and waits for running ones.
func (x *JoinApprover) Stop() {
	x.cancel()
	x.wg.Wait()
}

func subscriberOf(user *tgbotapi.User) *entities.Subscriber {
	return &entities.Subscriber{
		TelegramID:   strconv.FormatInt(user.ID, 10),
		Username:     user.UserName,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		LanguageCode: user.LanguageCode,
	}
}

package telegram

import (
	"context"
	"errors"
	"strconv"

	"domainhub/sources/features"
	"domainhub/sources/localization"
	"domainhub/sources/metrics"
	"domainhub/sources/repository"
	"domainhub/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	callbackCheckMembership = "check_membership"

	gatePassed   = "passed"
	gateBlocked  = "blocked"
	gateFailed   = "failed"
	gateDisabled = "disabled"
)

// MembershipGate admits only members of the configured channel.
type MembershipGate struct {
	bot          BotClient
	settings     *BotSettings
	features     *features.FeatureManager
	subscribers  *repository.SubscribersRepository
	localization *localization.LocalizationManager
	diplomat     *Diplomat
	metrics      *metrics.MetricsService
}

func NewMembershipGate(
	bot BotClient,
	settings *BotSettings,
	features *features.FeatureManager,
	subscribers *repository.SubscribersRepository,
	localization *localization.LocalizationManager,
	diplomat *Diplomat,
	metrics *metrics.MetricsService,
) *MembershipGate {
	return &MembershipGate{
		bot:          bot,
		settings:     settings,
		features:     features,
		subscribers:  subscribers,
		localization: localization,
		diplomat:     diplomat,
		metrics:      metrics,
	}
}

// IsMember reports whether a chat member status counts as membership.
func IsMember(member tgbotapi.ChatMember) bool {
	switch member.Status {
	case "member", "administrator", "creator":
		return true
	case "restricted":
		return member.IsMember
	}
	return false
}

func (x *MembershipGate) enabled() bool {
	return x.settings.ChannelID != 0 && x.features.Enabled(features.FeatureMembershipGate)
}

// Check asks Telegram for the user's channel status and records it. A failed
// lookup lets the user through.
func (x *MembershipGate) Check(ctx context.Context, log *tracing.Logger, user *tgbotapi.User) bool {
	defer tracing.ProfilePoint(log, "Membership gate check completed", "telegram.gate.check")()

	if !x.enabled() {
		x.metrics.RecordGateOutcome(gateDisabled)
		return true
	}

	member, err := x.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: x.settings.ChannelID, UserID: user.ID},
	})
	if err != nil {
		log.W("Failed to check channel membership", tracing.InnerError, err)
		x.metrics.RecordGateOutcome(gateFailed)
		return true
	}

	isMember := IsMember(member)
	log.D("Checked channel membership", tracing.MembershipStat, member.Status)

	telegramID := strconv.FormatInt(user.ID, 10)
	if err := x.subscribers.SetMembership(ctx, log, telegramID, isMember); err != nil && !errors.Is(err, repository.ErrSubscriberNotFound) {
		log.W("Failed to record membership", tracing.InnerError, err)
	}

	if isMember {
		x.metrics.RecordGateOutcome(gatePassed)
	} else {
		x.metrics.RecordGateOutcome(gateBlocked)
	}
	return isMember
}

// Block tells a non-member how to get in.
func (x *MembershipGate) Block(log *tracing.Logger, chatID int64, user *tgbotapi.User) {
	var rows [][]tgbotapi.InlineKeyboardButton
	if x.settings.ChannelInviteLink != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(x.localization.LocalizeBy(user, "BtnJoinChannel"), x.settings.ChannelInviteLink),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(x.localization.LocalizeBy(user, "BtnCheckMembership"), callbackCheckMembership),
	))

	if err := x.diplomat.SendText(log, chatID, x.localization.LocalizeBy(user, "MsgMembershipRequired"), tgbotapi.NewInlineKeyboardMarkup(rows...)); err != nil {
		log.W("Failed to send membership notice", tracing.InnerError, err)
	}
}

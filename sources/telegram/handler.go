package telegram

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"

	"domainhub/sources/features"
	"domainhub/sources/localization"
	"domainhub/sources/market"
	"domainhub/sources/metrics"
	"domainhub/sources/persistence/entities"
	"domainhub/sources/repository"
	"domainhub/sources/texting/domains"
	"domainhub/sources/texting/format"
	"domainhub/sources/texting/transform"
	"domainhub/sources/throttler"
	"domainhub/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

const (
	callbackStartOver = "start_over"
	callbackHelp      = "help"
	callbackRequest   = "request"

	myTicketsLimit      = 10
	myTicketsDomainsLen = 120
)

type TelegramHandler struct {
	diplomat          *Diplomat
	gate              *MembershipGate
	settings          *BotSettings
	subscribers       *repository.SubscribersRepository
	tickets           *repository.TicketsRepository
	chatState         *repository.ChatStateRepository
	market            *market.Market
	throttler         *throttler.Throttler
	features          *features.FeatureManager
	localization      *localization.LocalizationManager
	dateTimeFormatter *format.DateTimeFormatter
	metrics           *metrics.MetricsService
}

func NewTelegramHandler(
	diplomat *Diplomat,
	gate *MembershipGate,
	settings *BotSettings,
	subscribers *repository.SubscribersRepository,
	tickets *repository.TicketsRepository,
	chatState *repository.ChatStateRepository,
	market *market.Market,
	throttler *throttler.Throttler,
	fm *features.FeatureManager,
	localization *localization.LocalizationManager,
	dateTimeFormatter *format.DateTimeFormatter,
	metrics *metrics.MetricsService,
) *TelegramHandler {
	return &TelegramHandler{
		diplomat:          diplomat,
		gate:              gate,
		settings:          settings,
		subscribers:       subscribers,
		tickets:           tickets,
		chatState:         chatState,
		market:            market,
		throttler:         throttler,
		features:          fm,
		localization:      localization,
		dateTimeFormatter: dateTimeFormatter,
		metrics:           metrics,
	}
}

func (x *TelegramHandler) HandleMessage(log *tracing.Logger, msg *tgbotapi.Message) error {
	defer tracing.ProfilePoint(log, "Telegram handler message completed", "telegram.handler.message")()

	if msg.From == nil || msg.Chat == nil || !msg.Chat.IsPrivate() {
		log.D("Ignoring message outside private chat")
		return nil
	}

	ctx := context.Background()
	returning, err := x.touch(ctx, log, msg.From)
	if err != nil {
		return err
	}

	if !x.gate.Check(ctx, log, msg.From) {
		x.gate.Block(log, msg.Chat.ID, msg.From)
		return nil
	}

	if msg.IsCommand() {
		log = log.With(tracing.CommandIssued, msg.Command())
		x.metrics.RecordCommandUsed(msg.Command())

		switch msg.Command() {
		case "start":
			x.HandleStartCommand(log, msg.Chat.ID, msg.From, returning)
		case "help":
			x.HandleHelpCommand(log, msg.Chat.ID, msg.From)
		case "request":
			x.HandleRequestCommand(ctx, log, msg)
		case "mytickets":
			x.HandleMyTicketsCommand(ctx, log, msg)
		case "cancel":
			x.HandleCancelCommand(log, msg)
		default:
			x.HandleFallback(log, msg)
		}
		return nil
	}

	if state, err := x.chatState.GetState(log, msg.Chat.ID, msg.From.ID); err == nil && state != nil && state.Status == repository.ChatStateAwaitingDomains {
		if err := x.chatState.ClearState(log, msg.Chat.ID, msg.From.ID); err != nil {
			log.W("Failed to clear chat state", tracing.InnerError, err)
		}
		x.relayLead(ctx, log, msg.Chat.ID, msg.From, domains.Fields(x.RequestText(msg)), decimal.Zero)
		return nil
	}

	x.HandleFallback(log, msg)
	return nil
}

func (x *TelegramHandler) HandleCallback(log *tracing.Logger, query *tgbotapi.CallbackQuery) error {
	defer tracing.ProfilePoint(log, "Telegram handler callback completed", "telegram.handler.callback")()
	log.I("Got callback", tracing.CallbackData, query.Data)

	if query.Message == nil || query.Message.Chat == nil || query.From == nil || !query.Message.Chat.IsPrivate() {
		x.diplomat.AnswerCallback(log, query, "")
		return nil
	}

	ctx := context.Background()
	chatID := query.Message.Chat.ID
	user := query.From

	returning, err := x.touch(ctx, log, user)
	if err != nil {
		x.diplomat.AnswerCallback(log, query, "")
		return err
	}

	x.metrics.RecordCommandUsed("callback/" + query.Data)

	if query.Data == callbackCheckMembership {
		if !x.gate.Check(ctx, log, user) {
			x.diplomat.AnswerCallback(log, query, x.localization.LocalizeBy(user, "MsgMembershipStillMissing"))
			return nil
		}
		x.diplomat.AnswerCallback(log, query, x.localization.LocalizeBy(user, "MsgMembershipConfirmed"))
		x.HandleStartCommand(log, chatID, user, returning)
		return nil
	}

	if !x.gate.Check(ctx, log, user) {
		x.diplomat.AnswerCallback(log, query, "")
		x.gate.Block(log, chatID, user)
		return nil
	}

	x.diplomat.AnswerCallback(log, query, "")

	switch query.Data {
	case callbackStartOver:
		if err := x.chatState.ClearState(log, chatID, user.ID); err != nil {
			log.W("Failed to clear chat state", tracing.InnerError, err)
		}
		x.HandleStartCommand(log, chatID, user, returning)
	case callbackHelp:
		x.HandleHelpCommand(log, chatID, user)
	case callbackRequest:
		x.promptDomains(log, chatID, user)
	default:
		log.W("Unknown callback data")
	}

	return nil
}

func (x *TelegramHandler) HandleStartCommand(log *tracing.Logger, chatID int64, user *tgbotapi.User, returning bool) {
	text := x.localization.LocalizeBy(user, "MsgWelcome")
	if returning {
		text = x.localization.LocalizeBy(user, "MsgWelcomeBack")
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	if x.settings.WebAppURL != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(x.localization.LocalizeBy(user, "BtnLaunchWebApp"), x.settings.WebAppURL),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(x.localization.LocalizeBy(user, "BtnRequest"), callbackRequest),
	))
	rows = append(rows, x.supportRow(user, tgbotapi.NewInlineKeyboardButtonData(x.localization.LocalizeBy(user, "BtnHelp"), callbackHelp)))

	if err := x.diplomat.SendText(log, chatID, text, tgbotapi.NewInlineKeyboardMarkup(rows...)); err != nil {
		log.W("Failed to send welcome", tracing.InnerError, err)
	}
}

func (x *TelegramHandler) HandleHelpCommand(log *tracing.Logger, chatID int64, user *tgbotapi.User) {
	markup := tgbotapi.NewInlineKeyboardMarkup(
		x.supportRow(user, tgbotapi.NewInlineKeyboardButtonData(x.localization.LocalizeBy(user, "BtnStartOver"), callbackStartOver)),
	)

	if err := x.diplomat.SendText(log, chatID, x.localization.LocalizeBy(user, "MsgHelp"), markup); err != nil {
		log.W("Failed to send help", tracing.InnerError, err)
	}
}

func (x *TelegramHandler) HandleRequestCommand(ctx context.Context, log *tracing.Logger, msg *tgbotapi.Message) {
	args := x.RequestText(msg)
	if args == "" {
		x.promptDomains(log, msg.Chat.ID, msg.From)
		return
	}

	var cmd RequestCmd
	if _, err := ParseCmd(&cmd, args); err != nil {
		log.W("Error parsing request command", tracing.InnerError, err)
		x.diplomat.Reply(log, msg, x.localization.LocalizeBy(msg.From, "MsgRequestUsage"), nil)
		return
	}

	price := decimal.Zero
	if cmd.Price != "" {
		parsed, err := domains.ParsePrice(cmd.Price)
		if err != nil {
			x.diplomat.Reply(log, msg, x.localization.LocalizeBy(msg.From, "MsgRequestUsage"), nil)
			return
		}
		price = parsed
	}

	x.relayLead(ctx, log, msg.Chat.ID, msg.From, cmd.Names(), price)
}

func (x *TelegramHandler) HandleMyTicketsCommand(ctx context.Context, log *tracing.Logger, msg *tgbotapi.Message) {
	user := msg.From
	tickets, err := x.tickets.ListTicketsByCustomer(ctx, log, strconv.FormatInt(user.ID, 10))
	if err != nil {
		x.diplomat.Reply(log, msg, x.localization.LocalizeBy(user, "MsgErrorGeneric"), nil)
		return
	}

	if len(tickets) == 0 {
		x.diplomat.Reply(log, msg, x.localization.LocalizeBy(user, "MsgMyTicketsEmpty"), nil)
		return
	}

	tag := x.localization.TagOf(user)
	lines := []string{x.localization.LocalizeByTd(user, "MsgMyTicketsHeader", map[string]interface{}{
		"Count": format.Numberify(tag, int64(len(tickets))),
	})}

	if len(tickets) > myTicketsLimit {
		tickets = tickets[:myTicketsLimit]
	}
	for _, ticket := range tickets {
		lines = append(lines, x.localization.LocalizeByTd(user, "MsgMyTicketsItem", map[string]interface{}{
			"Status":  x.localization.LocalizeBy(user, "TicketStatus"+string(ticket.Status)),
			"Age":     x.dateTimeFormatter.Ageify(user, ticket.RequestTime),
			"Domains": transform.SmartTruncate(strings.Join(ticket.RequestDomains, ", "), myTicketsDomainsLen),
		}))
		if ticket.Price.IsPositive() {
			lines = append(lines, x.localization.LocalizeByTd(user, "MsgMyTicketsPrice", map[string]interface{}{
				"Price": format.Currencify(tag, ticket.Price),
			}))
		}
	}

	x.diplomat.Reply(log, msg, strings.Join(lines, "\n"), nil)
}

func (x *TelegramHandler) HandleCancelCommand(log *tracing.Logger, msg *tgbotapi.Message) {
	if !x.chatState.HasActiveState(log, msg.Chat.ID, msg.From.ID) {
		x.diplomat.Reply(log, msg, x.localization.LocalizeBy(msg.From, "MsgNothingToCancel"), nil)
		return
	}

	if err := x.chatState.ClearState(log, msg.Chat.ID, msg.From.ID); err != nil {
		x.diplomat.Reply(log, msg, x.localization.LocalizeBy(msg.From, "MsgErrorGeneric"), nil)
		return
	}

	x.diplomat.Reply(log, msg, x.localization.LocalizeBy(msg.From, "MsgCancelled"), nil)
}

func (x *TelegramHandler) HandleFallback(log *tracing.Logger, msg *tgbotapi.Message) {
	user := msg.From
	text := x.localization.LocalizeByTd(user, "MsgFallback", map[string]interface{}{"Name": user.FirstName})

	var markup any
	if x.settings.WebAppURL != "" {
		markup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(x.localization.LocalizeBy(user, "BtnLaunchWebApp"), x.settings.WebAppURL),
		))
	}

	x.diplomat.Reply(log, msg, text, markup)
}

func (x *TelegramHandler) promptDomains(log *tracing.Logger, chatID int64, user *tgbotapi.User) {
	if !x.features.Enabled(features.FeatureLeadRelay) {
		x.sendPaused(log, chatID, user)
		return
	}

	if err := x.chatState.InitLeadRequest(log, chatID, user.ID); err != nil {
		x.send(log, chatID, x.localization.LocalizeBy(user, "MsgErrorGeneric"), nil)
		return
	}

	x.send(log, chatID, x.localization.LocalizeBy(user, "MsgRequestPrompt"), nil)
}

// relayLead turns the names a user sent into a telegram ticket. Invalid names
// are reported back and the rest are still submitted.
func (x *TelegramHandler) relayLead(ctx context.Context, log *tracing.Logger, chatID int64, user *tgbotapi.User, raws []string, price decimal.Decimal) {
	if !x.features.Enabled(features.FeatureLeadRelay) {
		x.sendPaused(log, chatID, user)
		return
	}

	if len(raws) == 0 {
		x.send(log, chatID, x.localization.LocalizeBy(user, "MsgRequestEmpty"), nil)
		return
	}

	valid, invalid := domains.NormalizeList(raws)
	if len(invalid) > 0 {
		x.send(log, chatID, x.localization.LocalizeByTd(user, "MsgRequestInvalid", map[string]interface{}{
			"Invalid": strings.Join(invalid, ", "),
		}), nil)
	}
	if len(valid) == 0 {
		x.metrics.RecordLead(string(entities.TicketSourceTelegram), "invalid")
		return
	}

	if limit := x.settings.MaxLeadDomains; limit > 0 && len(valid) > limit {
		x.send(log, chatID, x.localization.LocalizeByTd(user, "MsgRequestTooMany", map[string]interface{}{"Max": limit}), nil)
		return
	}

	customerID := strconv.FormatInt(user.ID, 10)
	fingerprint := leadFingerprint(valid)
	if !x.throttler.ClaimLead(customerID, fingerprint, x.settings.LeadDedupeWindow) {
		log.I("Duplicate lead acknowledged", tracing.CustomerId, customerID)
		x.metrics.RecordLead(string(entities.TicketSourceTelegram), "duplicate")
		x.send(log, chatID, x.localization.LocalizeBy(user, "MsgRequestDuplicate"), nil)
		return
	}

	ticket, err := x.market.SubmitLead(ctx, log, market.LeadInput{
		CustomerID: customerID,
		Domains:    valid,
		Price:      price,
		Source:     entities.TicketSourceTelegram,
	})
	if err != nil {
		log.E("Failed to submit lead", tracing.InnerError, err)
		x.throttler.Release(throttler.LeadKey(customerID, fingerprint))
		x.send(log, chatID, x.localization.LocalizeBy(user, "MsgErrorGeneric"), nil)
		return
	}

	log.I("Lead relayed", tracing.TicketId, ticket.ID)
	x.send(log, chatID, x.localization.LocalizeByTd(user, "MsgRequestCreated", map[string]interface{}{
		"Domains": strings.Join(ticket.RequestDomains, ", "),
	}), nil)
}

func (x *TelegramHandler) sendPaused(log *tracing.Logger, chatID int64, user *tgbotapi.User) {
	var markup any
	if x.settings.SupportURL != "" {
		markup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(x.localization.LocalizeBy(user, "BtnSupport"), x.settings.SupportURL),
		))
	}
	x.send(log, chatID, x.localization.LocalizeBy(user, "MsgRequestsPaused"), markup)
}

func (x *TelegramHandler) send(log *tracing.Logger, chatID int64, text string, markup any) {
	if err := x.diplomat.SendText(log, chatID, text, markup); err != nil {
		log.W("Failed to send message", tracing.InnerError, err)
	}
}

func (x *TelegramHandler) supportRow(user *tgbotapi.User, button tgbotapi.InlineKeyboardButton) []tgbotapi.InlineKeyboardButton {
	if x.settings.SupportURL == "" {
		return tgbotapi.NewInlineKeyboardRow(button)
	}
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonURL(x.localization.LocalizeBy(user, "BtnSupport"), x.settings.SupportURL),
		button,
	)
}

// touch records the interaction and reports whether the subscriber was
// already known.
func (x *TelegramHandler) touch(ctx context.Context, log *tracing.Logger, user *tgbotapi.User) (bool, error) {
	_, err := x.subscribers.GetSubscriber(ctx, log, strconv.FormatInt(user.ID, 10))
	if err != nil && !errors.Is(err, repository.ErrSubscriberNotFound) {
		return false, err
	}
	returning := err == nil

	if _, err := x.subscribers.UpsertSubscriber(ctx, log, subscriberOf(user)); err != nil {
		return false, err
	}
	return returning, nil
}

func leadFingerprint(names []string) string {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	return strings.Join(sorted, ",")
}

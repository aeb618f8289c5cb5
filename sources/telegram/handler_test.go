package telegram

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"domainhub/sources/features"
	"domainhub/sources/persistence/entities"
	"domainhub/sources/texting"
	"domainhub/sources/texting/format"
	"domainhub/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestIsMember(t *testing.T) {
	tests := []struct {
		member   tgbotapi.ChatMember
		expected bool
	}{
		{member: tgbotapi.ChatMember{Status: "member"}, expected: true},
		{member: tgbotapi.ChatMember{Status: "administrator"}, expected: true},
		{member: tgbotapi.ChatMember{Status: "creator"}, expected: true},
		{member: tgbotapi.ChatMember{Status: "restricted", IsMember: true}, expected: true},
		{member: tgbotapi.ChatMember{Status: "restricted"}, expected: false},
		{member: tgbotapi.ChatMember{Status: "left"}, expected: false},
		{member: tgbotapi.ChatMember{Status: "kicked"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.member.Status, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsMember(tt.member))
		})
	}
}

func TestParseRequestCmd(t *testing.T) {
	var cmd RequestCmd
	_, err := ParseCmd(&cmd, "A.com, b.net;c.org --price 1,500")
	require.NoError(t, err)

	assert.Equal(t, []string{"A.com", "b.net", "c.org"}, cmd.Names())
	assert.Equal(t, "1,500", cmd.Price)

	_, err = ParseCmd(&RequestCmd{}, "a.com --bogus")
	assert.Error(t, err)
}

func TestStartWelcomesNewAndReturningUsers(t *testing.T) {
	f := newFixture(t, nil)

	f.send("/start")
	assert.Equal(t, f.text("MsgWelcome", nil), f.bot.last().Text)

	markup, ok := f.bot.last().ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.NotEmpty(t, markup.InlineKeyboard)
	require.NotNil(t, markup.InlineKeyboard[0][0].URL)
	assert.Equal(t, "https://shop.example.com", *markup.InlineKeyboard[0][0].URL)

	f.send("/start")
	assert.Equal(t, f.text("MsgWelcomeBack", nil), f.bot.last().Text)

	subscriber, err := f.subscribers.GetSubscriber(context.Background(), tracing.NewNopLogger(), strconv.FormatInt(f.user.ID, 10))
	require.NoError(t, err)
	assert.Equal(t, "ada", subscriber.Username)
	assert.True(t, subscriber.IsSubscribed)
	assert.True(t, subscriber.IsMember)
}

func TestGateBlocksNonMembers(t *testing.T) {
	f := newFixture(t, nil)
	f.bot.member = tgbotapi.ChatMember{Status: "left"}

	f.send("/help")

	require.Len(t, f.bot.texts(), 1)
	assert.Equal(t, f.text("MsgMembershipRequired", nil), f.bot.last().Text)

	markup := f.bot.last().ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "https://t.me/+invite", *markup.InlineKeyboard[0][0].URL)
	assert.Equal(t, callbackCheckMembership, *markup.InlineKeyboard[1][0].CallbackData)

	subscriber, err := f.subscribers.GetSubscriber(context.Background(), tracing.NewNopLogger(), strconv.FormatInt(f.user.ID, 10))
	require.NoError(t, err)
	assert.False(t, subscriber.IsMember)

	f.bot.reset()
	f.press(callbackCheckMembership)
	assert.Empty(t, f.bot.texts(), "still outside the channel")

	f.bot.member = tgbotapi.ChatMember{Status: "member"}
	f.press(callbackCheckMembership)
	assert.Equal(t, f.text("MsgWelcomeBack", nil), f.bot.last().Text)
}

func TestGateFailsOpen(t *testing.T) {
	f := newFixture(t, nil)
	f.bot.memberErr = errors.New("Bad Request: member list is inaccessible")

	f.send("/help")
	assert.Equal(t, f.text("MsgHelp", nil), f.bot.last().Text)
}

func TestGateDisabledByFlag(t *testing.T) {
	f := newFixture(t, map[string]bool{features.FeatureMembershipGate: false})
	f.bot.member = tgbotapi.ChatMember{Status: "left"}

	f.send("/help")
	assert.Equal(t, f.text("MsgHelp", nil), f.bot.last().Text)
}

func TestRequestCommandCreatesTicket(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	customerID := strconv.FormatInt(f.user.ID, 10)

	f.send("/request A.com, b.net bad_name --price 500")

	texts := f.bot.texts()
	require.Len(t, texts, 2)
	assert.Equal(t, f.text("MsgRequestInvalid", map[string]interface{}{"Invalid": "bad_name"}), texts[0])
	assert.Equal(t, f.text("MsgRequestCreated", map[string]interface{}{"Domains": "a.com, b.net"}), texts[1])

	tickets, err := f.tickets.ListTicketsByCustomer(ctx, tracing.NewNopLogger(), customerID)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, []string{"a.com", "b.net"}, tickets[0].RequestDomains)
	assert.Equal(t, entities.TicketStatusNew, tickets[0].Status)
	assert.Equal(t, entities.TicketSourceTelegram, tickets[0].Source)
	assert.True(t, decimal.NewFromInt(500).Equal(tickets[0].Price))

	f.send("/request b.net a.com")
	assert.Equal(t, f.text("MsgRequestDuplicate", nil), f.bot.last().Text)

	tickets, err = f.tickets.ListTicketsByCustomer(ctx, tracing.NewNopLogger(), customerID)
	require.NoError(t, err)
	assert.Len(t, tickets, 1, "same domain set within the window is not a new ticket")
}

func TestRequestCommandRejections(t *testing.T) {
	f := newFixture(t, nil)

	f.send("/request nope")
	assert.Equal(t, f.text("MsgRequestInvalid", map[string]interface{}{"Invalid": "nope"}), f.bot.last().Text)

	f.send("/request a.com --price abc")
	assert.Equal(t, f.text("MsgRequestUsage", nil), f.bot.last().Text)

	f.handler.settings.MaxLeadDomains = 1
	f.send("/request a.com b.com")
	assert.Equal(t, f.text("MsgRequestTooMany", map[string]interface{}{"Max": 1}), f.bot.last().Text)

	tickets, err := f.tickets.ListTicketsByCustomer(context.Background(), tracing.NewNopLogger(), strconv.FormatInt(f.user.ID, 10))
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestRequestFlowThroughChatState(t *testing.T) {
	f := newFixture(t, nil)

	f.press(callbackRequest)
	assert.Equal(t, f.text("MsgRequestPrompt", nil), f.bot.last().Text)

	f.send("first.com\nsecond.org")
	assert.Equal(t, f.text("MsgRequestCreated", map[string]interface{}{"Domains": "first.com, second.org"}), f.bot.last().Text)

	f.send("just chatting")
	assert.Equal(t, f.text("MsgFallback", map[string]interface{}{"Name": "Ada"}), f.bot.last().Text)
}

func TestCancelCommand(t *testing.T) {
	f := newFixture(t, nil)

	f.send("/cancel")
	assert.Equal(t, f.text("MsgNothingToCancel", nil), f.bot.last().Text)

	f.send("/request")
	assert.Equal(t, f.text("MsgRequestPrompt", nil), f.bot.last().Text)

	f.send("/cancel")
	assert.Equal(t, f.text("MsgCancelled", nil), f.bot.last().Text)

	f.send("later.com")
	assert.Equal(t, f.text("MsgFallback", map[string]interface{}{"Name": "Ada"}), f.bot.last().Text)
}

func TestLeadRelayDisabled(t *testing.T) {
	f := newFixture(t, map[string]bool{features.FeatureLeadRelay: false})

	f.send("/request a.com")
	assert.Equal(t, f.text("MsgRequestsPaused", nil), f.bot.last().Text)

	tickets, err := f.tickets.ListTicketsByCustomer(context.Background(), tracing.NewNopLogger(), strconv.FormatInt(f.user.ID, 10))
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestMyTickets(t *testing.T) {
	f := newFixture(t, nil)

	f.send("/mytickets")
	assert.Equal(t, f.text("MsgMyTicketsEmpty", nil), f.bot.last().Text)

	f.send("/request alpha.com beta.com --price 250")
	f.send("/mytickets")

	text := f.bot.last().Text
	assert.Contains(t, text, f.text("MsgMyTicketsHeader", map[string]interface{}{"Count": "1"}))
	assert.Contains(t, text, texting.EscapeMarkdown("alpha.com, beta.com"))
	assert.Contains(t, text, texting.EscapeMarkdown(f.localization.LocalizeBy(f.user, "TicketStatusNew")))
	assert.Contains(t, text, texting.EscapeMarkdown(format.Currencify(language.English, decimal.NewFromInt(250))))
}

func TestIgnoresGroupChats(t *testing.T) {
	f := newFixture(t, nil)

	msg := f.message("/start")
	msg.Chat = &tgbotapi.Chat{ID: -100, Type: "supergroup"}
	require.NoError(t, f.handler.HandleMessage(tracing.NewNopLogger(), msg))

	assert.Empty(t, f.bot.texts())
}

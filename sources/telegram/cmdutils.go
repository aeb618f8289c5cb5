package telegram

import (
	"io"
	"strings"

	"domainhub/sources/texting"
	"domainhub/sources/texting/domains"

	"github.com/alecthomas/kong"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// RequestCmd is "/request a.com b.net --price 500".
type RequestCmd struct {
	Domains []string `arg:"" optional:"" help:"Domains to request."`
	Price   string   `name:"price" short:"p" help:"Offered price."`
}

// Names splits every argument on the separators a user may type between domains.
func (c *RequestCmd) Names() []string {
	var names []string
	for _, arg := range c.Domains {
		names = append(names, domains.Fields(arg)...)
	}
	return names
}

func ParseCmd(cmd any, args string) (*kong.Context, error) {
	parser, err := kong.New(cmd,
		kong.Name("request"),
		kong.NoDefaultHelp(),
		kong.Exit(func(int) {}),
		kong.Writers(io.Discard, io.Discard),
	)
	if err != nil {
		return nil, err
	}
	return parser.Parse(texting.ParseCmdArgs(args))
}

func (x *TelegramHandler) RequestText(msg *tgbotapi.Message) string {
	if msg.IsCommand() {
		return strings.TrimSpace(msg.CommandArguments())
	}
	return strings.TrimSpace(msg.Text)
}

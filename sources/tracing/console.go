package tracing

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	ExecutionTime  = "exe_time"
	Operation      = "operation"
	InnerError     = "inner_error"
	UserId         = "user_id"
	UserName       = "user_name"
	ChatType       = "chat_type"
	ChatId         = "chat_id"
	MessageId      = "message_id"
	MessageDate    = "message_date"
	CommandIssued  = "command_issued"
	CallbackData   = "callback_data"
	UpdateKind     = "update_kind"
	DomainId       = "domain_id"
	DomainName     = "domain_name"
	TicketId       = "ticket_id"
	TicketStatus   = "ticket_status"
	CommentId      = "comment_id"
	CustomerId     = "customer_id"
	TelegramId     = "telegram_id"
	BulkAction     = "bulk_action"
	ImportFile     = "import_file"
	ImportRow      = "import_row"
	HttpMethod     = "http_method"
	HttpRoute      = "http_route"
	HttpStatus     = "http_status"
	RemoteAddr     = "remote_addr"
	FeatureName    = "feature_name"
	WsClients      = "ws_clients"
	EventType      = "event_type"
	ProxyUrl       = "proxy_url"
	SqlQuery       = "sql_query"
	AdminName      = "admin_name"
	MembershipStat = "membership_status"
)

type Logger struct {
	log *slog.Logger
	ctx context.Context
}

func NewConsoleLogger() *Logger {
	return NewLogger(os.Stdout, parseLevel(os.Getenv("LOG_LEVEL")))
}

func NewLogger(w io.Writer, level slog.Level) *Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))

	ctx := context.Background()
	logger.InfoContext(ctx, "Initializing logger", "level", level.String())
	return &Logger{log: logger, ctx: ctx}
}

// NewNopLogger discards everything; used by tests.
func NewNopLogger() *Logger {
	return &Logger{log: slog.New(slog.NewJSONHandler(io.Discard, nil)), ctx: context.Background()}
}

func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{log: l.log.With(args...), ctx: l.ctx}
}

func (l *Logger) D(msg string, args ...any) {
	l.log.DebugContext(l.ctx, msg, args...)
}

func (l *Logger) I(msg string, args ...any) {
	l.log.InfoContext(l.ctx, msg, args...)
}

func (l *Logger) W(msg string, args ...any) {
	l.log.WarnContext(l.ctx, msg, args...)
}

func (l *Logger) E(msg string, args ...any) {
	l.log.ErrorContext(l.ctx, msg, args...)
}

func (l *Logger) F(msg string, args ...any) {
	l.log.ErrorContext(l.ctx, msg, args...)
	panic(msg)
}

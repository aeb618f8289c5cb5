package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"domainhub/sources/persistence"
	"domainhub/sources/platform"
	"domainhub/sources/tracing"
)

const (
	ChatStateNone            = 0
	ChatStateAwaitingDomains = 1
)

type ChatStateData struct {
	Status    int       `json:"status"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatStateRepository struct {
	kv     persistence.KeyValue
	config *ChatStateConfig
}

func NewChatStateRepository(kv persistence.KeyValue, config *ChatStateConfig) *ChatStateRepository {
	return &ChatStateRepository{kv: kv, config: config}
}

func (r *ChatStateRepository) getChatStateKey(chatID int64, userID int64) string {
	return fmt.Sprintf("chat_state:%d:%d", chatID, userID)
}

func (r *ChatStateRepository) GetState(logger *tracing.Logger, chatID int64, userID int64) (*ChatStateData, error) {
	defer tracing.ProfilePoint(logger, "ChatState get completed", "repository.chatstate.get", tracing.ChatId, chatID, tracing.UserId, userID)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 5*time.Second)
	defer cancel()

	data, found, err := r.kv.Get(ctx, r.getChatStateKey(chatID, userID))
	if err != nil {
		logger.E("Failed to get chat state", tracing.InnerError, err)
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var state ChatStateData
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		logger.E("Failed to unmarshal chat state", tracing.InnerError, err)
		return nil, err
	}

	return &state, nil
}

func (r *ChatStateRepository) SetState(logger *tracing.Logger, chatID int64, userID int64, state *ChatStateData) error {
	defer tracing.ProfilePoint(logger, "ChatState set completed", "repository.chatstate.set", tracing.ChatId, chatID, tracing.UserId, userID, "status", state.Status)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 5*time.Second)
	defer cancel()

	state.CreatedAt = time.Now()
	data, err := json.Marshal(state)
	if err != nil {
		logger.E("Failed to marshal chat state", tracing.InnerError, err)
		return err
	}

	if err := r.kv.Set(ctx, r.getChatStateKey(chatID, userID), string(data), r.config.TTL); err != nil {
		logger.E("Failed to set chat state", tracing.InnerError, err)
		return err
	}

	logger.I("Chat state set successfully", tracing.ChatId, chatID, tracing.UserId, userID, "status", GetStatusName(state.Status))
	return nil
}

func (r *ChatStateRepository) ClearState(logger *tracing.Logger, chatID int64, userID int64) error {
	defer tracing.ProfilePoint(logger, "ChatState clear completed", "repository.chatstate.clear", tracing.ChatId, chatID, tracing.UserId, userID)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.kv.Del(ctx, r.getChatStateKey(chatID, userID)); err != nil {
		logger.E("Failed to clear chat state", tracing.InnerError, err)
		return err
	}

	return nil
}

func (r *ChatStateRepository) HasActiveState(logger *tracing.Logger, chatID int64, userID int64) bool {
	state, err := r.GetState(logger, chatID, userID)
	if err != nil {
		return false
	}
	return state != nil && state.Status != ChatStateNone
}

func (r *ChatStateRepository) InitLeadRequest(logger *tracing.Logger, chatID int64, userID int64) error {
	return r.SetState(logger, chatID, userID, &ChatStateData{Status: ChatStateAwaitingDomains, UserID: userID})
}

func GetStatusName(status int) string {
	switch status {
	case ChatStateNone:
		return "none"
	case ChatStateAwaitingDomains:
		return "awaiting_domains"
	default:
		return "unknown"
	}
}

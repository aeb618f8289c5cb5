package repository

import (
	"context"
	"errors"
	"time"

	"domainhub/sources/persistence/entities"
	"domainhub/sources/platform"
	"domainhub/sources/tracing"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSubscriberNotFound = errors.New("subscriber not found")
)

type SubscribersRepository struct {
	db *gorm.DB
}

func NewSubscribersRepository(db *gorm.DB) *SubscribersRepository {
	return &SubscribersRepository{db: db}
}

// UpsertSubscriber records an interaction: inserts the subscriber or refreshes
// the profile fields of an existing one. Membership is left untouched.
func (x *SubscribersRepository) UpsertSubscriber(ctx context.Context, logger *tracing.Logger, subscriber *entities.Subscriber) (*entities.Subscriber, error) {
	defer tracing.ProfilePoint(logger, "Subscribers upsert subscriber completed", "repository.subscribers.upsert.subscriber", tracing.TelegramId, subscriber.TelegramID)()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	subscriber.IsSubscribed = true
	subscriber.LastInteraction = time.Now()

	err := x.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"username", "first_name", "last_name", "language_code", "is_subscribed", "last_interaction", "updated_at",
		}),
	}).Create(subscriber).Error
	if err != nil {
		logger.E("Failed to upsert subscriber", tracing.InnerError, err)
		return nil, err
	}

	return x.GetSubscriber(ctx, logger, subscriber.TelegramID)
}

func (x *SubscribersRepository) GetSubscriber(ctx context.Context, logger *tracing.Logger, telegramID string) (*entities.Subscriber, error) {
	defer tracing.ProfilePoint(logger, "Subscribers get subscriber completed", "repository.subscribers.get.subscriber", tracing.TelegramId, telegramID)()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	var subscriber entities.Subscriber
	err := x.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&subscriber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriberNotFound
		}
		logger.E("Failed to get subscriber", tracing.InnerError, err)
		return nil, err
	}

	return &subscriber, nil
}

func (x *SubscribersRepository) SetMembership(ctx context.Context, logger *tracing.Logger, telegramID string, isMember bool) error {
	defer tracing.ProfilePoint(logger, "Subscribers set membership completed", "repository.subscribers.set.membership", tracing.TelegramId, telegramID)()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	result := x.db.WithContext(ctx).Model(&entities.Subscriber{}).
		Where("telegram_id = ?", telegramID).
		Updates(map[string]any{"is_member": isMember, "updated_at": time.Now()})
	if result.Error != nil {
		logger.E("Failed to set membership", tracing.InnerError, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriberNotFound
	}

	return nil
}

func (x *SubscribersRepository) ListSubscribers(ctx context.Context, logger *tracing.Logger) ([]entities.Subscriber, error) {
	defer tracing.ProfilePoint(logger, "Subscribers list subscribers completed", "repository.subscribers.list.subscribers")()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	subscribers := []entities.Subscriber{}
	if err := x.db.WithContext(ctx).Order("last_interaction desc").Find(&subscribers).Error; err != nil {
		logger.E("Failed to list subscribers", tracing.InnerError, err)
		return nil, err
	}

	return subscribers, nil
}

func (x *SubscribersRepository) CountSubscribers(ctx context.Context, logger *tracing.Logger) (int64, error) {
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	var count int64
	if err := x.db.WithContext(ctx).Model(&entities.Subscriber{}).Count(&count).Error; err != nil {
		logger.E("Failed to count subscribers", tracing.InnerError, err)
		return 0, err
	}
	return count, nil
}

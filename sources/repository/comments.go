package repository

import (
	"context"
	"errors"
	"time"

	"domainhub/sources/persistence/entities"
	"domainhub/sources/platform"
	"domainhub/sources/tracing"

	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
)

type CommentsRepository struct {
	db *gorm.DB
}

func NewCommentsRepository(db *gorm.DB) *CommentsRepository {
	return &CommentsRepository{db: db}
}

func (x *CommentsRepository) CreateComment(ctx context.Context, logger *tracing.Logger, comment *entities.Comment) error {
	defer tracing.ProfilePoint(logger, "Comments create comment completed", "repository.comments.create.comment")()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	if err := x.db.WithContext(ctx).Create(comment).Error; err != nil {
		logger.E("Failed to create comment", tracing.InnerError, err)
		return err
	}

	logger.I("Created comment", tracing.CommentId, comment.ID)
	return nil
}

func (x *CommentsRepository) ListComments(ctx context.Context, logger *tracing.Logger) ([]entities.Comment, error) {
	defer tracing.ProfilePoint(logger, "Comments list comments completed", "repository.comments.list.comments")()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	comments := []entities.Comment{}
	if err := x.db.WithContext(ctx).Order("created_at desc").Find(&comments).Error; err != nil {
		logger.E("Failed to list comments", tracing.InnerError, err)
		return nil, err
	}

	return comments, nil
}

func (x *CommentsRepository) MarkCommentRead(ctx context.Context, logger *tracing.Logger, id string) error {
	defer tracing.ProfilePoint(logger, "Comments mark read completed", "repository.comments.mark.read", tracing.CommentId, id)()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	result := x.db.WithContext(ctx).Model(&entities.Comment{}).Where("id = ?", id).
		Updates(map[string]any{"status": entities.CommentStatusRead, "updated_at": time.Now()})
	if result.Error != nil {
		logger.E("Failed to mark comment read", tracing.InnerError, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}

	return nil
}

func (x *CommentsRepository) CountNewComments(ctx context.Context, logger *tracing.Logger) (int64, error) {
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	var count int64
	err := x.db.WithContext(ctx).Model(&entities.Comment{}).Where("status = ?", entities.CommentStatusNew).Count(&count).Error
	if err != nil {
		logger.E("Failed to count new comments", tracing.InnerError, err)
		return 0, err
	}
	return count, nil
}

func (x *CommentsRepository) DeleteComment(ctx context.Context, logger *tracing.Logger, id string) error {
	defer tracing.ProfilePoint(logger, "Comments delete comment completed", "repository.comments.delete.comment", tracing.CommentId, id)()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	result := x.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Comment{})
	if result.Error != nil {
		logger.E("Failed to delete comment", tracing.InnerError, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}

	logger.I("Deleted comment", tracing.CommentId, id)
	return nil
}

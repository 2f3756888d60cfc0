package repository

import (
	"context"

	"anoa.com/alumninetwork/internal/entity"
	"anoa.com/alumninetwork/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	msgReactionNotFound = "reaction not found"
	msgPostNotFound     = "post not found"
	msgAlreadyReacted   = "you have already reacted to this post"
)

type ReactionRepository interface {
	Create(ctx context.Context, reaction *entity.Reaction) error
	FindByPostAndUser(ctx context.Context, postID, userID uuid.UUID) (*entity.Reaction, error)
	UpdateType(ctx context.Context, reaction *entity.Reaction, reactionType entity.ReactionType) error
	Delete(ctx context.Context, reaction *entity.Reaction) error
	ListByPost(ctx context.Context, postID uuid.UUID) ([]entity.Reaction, error)
	CountByPost(ctx context.Context, postID uuid.UUID) (map[entity.ReactionType]int64, error)
	CountByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]map[entity.ReactionType]int64, error)
	PostExists(ctx context.Context, postID uuid.UUID) (bool, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Create relies on the (post_id, user_id) unique index to reject a second reaction.
func (r *reactionRepository) Create(ctx context.Context, reaction *entity.Reaction) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(reaction).Error
	return apperror.FromDB(err, msgPostNotFound, msgAlreadyReacted)
}

func (r *reactionRepository) FindByPostAndUser(ctx context.Context, postID, userID uuid.UUID) (*entity.Reaction, error) {
	// Find with a slice avoids gorm's record-not-found log noise
	var existing []entity.Reaction
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ? AND user_id = ?", postID, userID).
		Limit(1).
		Find(&existing).Error; err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, apperror.NotFound(msgReactionNotFound)
	}
	return &existing[0], nil
}

func (r *reactionRepository) UpdateType(ctx context.Context, reaction *entity.Reaction, reactionType entity.ReactionType) error {
	if err := r.db.WithContext(ctx).
		Model(reaction).
		Update("type", reactionType).Error; err != nil {
		return err
	}
	reaction.Type = reactionType
	return nil
}

func (r *reactionRepository) Delete(ctx context.Context, reaction *entity.Reaction) error {
	return r.db.WithContext(ctx).Delete(reaction).Error
}

func (r *reactionRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]entity.Reaction, error) {
	var reactions []entity.Reaction
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&reactions).Error
	return reactions, err
}

type typeCount struct {
	PostID uuid.UUID
	Type   entity.ReactionType
	Count  int64
}

func (r *reactionRepository) CountByPost(ctx context.Context, postID uuid.UUID) (map[entity.ReactionType]int64, error) {
	byPost, err := r.CountByPosts(ctx, []uuid.UUID{postID})
	if err != nil {
		return nil, err
	}
	if counts, ok := byPost[postID]; ok {
		return counts, nil
	}
	return map[entity.ReactionType]int64{}, nil
}

func (r *reactionRepository) CountByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]map[entity.ReactionType]int64, error) {
	out := make(map[uuid.UUID]map[entity.ReactionType]int64, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	var rows []typeCount
	if err := r.db.WithContext(ctx).
		Model(&entity.Reaction{}).
		Select("post_id, type, count(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id, type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		if out[row.PostID] == nil {
			out[row.PostID] = make(map[entity.ReactionType]int64)
		}
		out[row.PostID][row.Type] = row.Count
	}
	return out, nil
}

func (r *reactionRepository) PostExists(ctx context.Context, postID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Post{}).Where("id = ?", postID).Count(&count).Error
	return count > 0, err
}

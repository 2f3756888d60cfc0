package repository

import (
	"context"

	"anoa.com/alumninetwork/internal/entity"
	"anoa.com/alumninetwork/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const msgPostNotFound = "post not found"

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	FindAll(ctx context.Context, authorID *uuid.UUID, offset, limit int) ([]entity.Post, int64, error)
	Update(ctx context.Context, post *entity.Post) error
	SetCommentsLocked(ctx context.Context, id uuid.UUID, locked bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	CommentCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
	return apperror.FromDB(err, "author not found", "")
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	var post entity.Post
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&post).Error; err != nil {
		return nil, apperror.FromDB(err, msgPostNotFound, "")
	}
	return &post, nil
}

func (r *postRepository) FindAll(ctx context.Context, authorID *uuid.UUID, offset, limit int) ([]entity.Post, int64, error) {
	var (
		posts []entity.Post
		total int64
	)

	byAuthor := func(db *gorm.DB) *gorm.DB {
		if authorID != nil {
			return db.Where("user_id = ?", *authorID)
		}
		return db
	}

	if err := r.db.WithContext(ctx).Model(&entity.Post{}).Scopes(byAuthor).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Scopes(byAuthor).
		Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// Update writes title and content; updated_at is refreshed by gorm.
func (r *postRepository) Update(ctx context.Context, post *entity.Post) error {
	return r.db.WithContext(ctx).
		Model(post).
		Omit(clause.Associations).
		Select("title", "content", "updated_at").
		Updates(post).Error
}

func (r *postRepository) SetCommentsLocked(ctx context.Context, id uuid.UUID, locked bool) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Where("id = ?", id).
		Update("comments_locked", locked)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(msgPostNotFound)
	}
	return nil
}

// Delete removes the post; comments and reactions go with it through ON DELETE CASCADE.
func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.Post{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(msgPostNotFound)
	}
	return nil
}

func (r *postRepository) CommentCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	type row struct {
		PostID uuid.UUID
		Count  int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&entity.Comment{}).
		Select("post_id, count(*) as count").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, r := range rows {
		out[r.PostID] = r.Count
	}
	return out, nil
}

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
	msgCommentNotFound = "comment not found"
	msgPostNotFound    = "post not found"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error)
	FindByPost(ctx context.Context, postID uuid.UUID, offset, limit int) ([]entity.Comment, int64, error)
	UpdateContent(ctx context.Context, comment *entity.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create re-reads the post's lock flag inside the insert transaction, holding a share lock
// on the post row so a concurrent lock cannot slip in between check and insert.
func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post entity.Post
		if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
			Where("id = ?", comment.PostID).
			First(&post).Error; err != nil {
			return err
		}

		if err := entity.CheckCommentable(&post); err != nil {
			return apperror.Validation(err.Error())
		}

		return tx.Omit(clause.Associations).Create(comment).Error
	})
	return apperror.FromDB(err, msgPostNotFound, "")
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	var comment entity.Comment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Post").
		Where("id = ?", id).
		First(&comment).Error; err != nil {
		return nil, apperror.FromDB(err, msgCommentNotFound, "")
	}
	return &comment, nil
}

func (r *commentRepository) FindByPost(ctx context.Context, postID uuid.UUID, offset, limit int) ([]entity.Comment, int64, error) {
	var (
		comments []entity.Comment
		total    int64
	)

	if err := r.db.WithContext(ctx).
		Model(&entity.Comment{}).
		Where("post_id = ?", postID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, comment *entity.Comment) error {
	return r.db.WithContext(ctx).
		Model(&entity.Comment{}).
		Where("id = ?", comment.ID).
		Update("content", comment.Content).Error
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.Comment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(msgCommentNotFound)
	}
	return nil
}

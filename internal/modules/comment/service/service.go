package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"anoa.com/alumninetwork/internal/entity"
	commentDto "anoa.com/alumninetwork/internal/modules/comment/dto"
	commentRepo "anoa.com/alumninetwork/internal/modules/comment/repository"
	postRepo "anoa.com/alumninetwork/internal/modules/post/repository"
	userRepo "anoa.com/alumninetwork/internal/modules/user/repository"
	"anoa.com/alumninetwork/pkg/apperror"
	"anoa.com/alumninetwork/pkg/dto"
	"anoa.com/alumninetwork/pkg/ratelimiter"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Notifier delivers a single notification; the notification service satisfies it.
type Notifier interface {
	Notify(ctx context.Context, senderID, recipientID uuid.UUID, title, content string) error
}

type CommentService interface {
	Create(ctx context.Context, userID, postID uuid.UUID, req commentDto.CommentRequest) (*commentDto.CommentResponse, error)
	List(ctx context.Context, postID uuid.UUID, query dto.PaginationQuery) (*commentDto.PaginatedCommentResponse, error)
	Update(ctx context.Context, userID, commentID uuid.UUID, req commentDto.CommentRequest) (*commentDto.CommentResponse, error)
	Delete(ctx context.Context, userID, commentID uuid.UUID) error
}

type commentService struct {
	repo        commentRepo.CommentRepository
	postRepo    postRepo.PostRepository
	userRepo    userRepo.UserRepository
	notifier    Notifier
	redisClient *redis.Client
	cooldown    time.Duration
}

func NewCommentService(repo commentRepo.CommentRepository, postRepo postRepo.PostRepository, userRepo userRepo.UserRepository, notifier Notifier, redisClient *redis.Client, cooldown time.Duration) CommentService {
	return &commentService{
		repo:        repo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		redisClient: redisClient,
		cooldown:    cooldown,
	}
}

func (s *commentService) Create(ctx context.Context, userID, postID uuid.UUID, req commentDto.CommentRequest) (*commentDto.CommentResponse, error) {
	if err := ratelimiter.Guard(ctx, s.redisClient, userID, "comment", s.cooldown); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: req.Content,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, userID, "comment")
		return nil, err
	}

	stored, err := s.repo.FindByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}

	s.notifyAuthor(ctx, stored)

	res := toResponse(stored)
	return &res, nil
}

func (s *commentService) List(ctx context.Context, postID uuid.UUID, query dto.PaginationQuery) (*commentDto.PaginatedCommentResponse, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	offset := query.Normalize()
	comments, total, err := s.repo.FindByPost(ctx, postID, offset, query.Limit)
	if err != nil {
		return nil, err
	}

	data := make([]commentDto.CommentResponse, 0, len(comments))
	for i := range comments {
		data = append(data, toResponse(&comments[i]))
	}

	return &commentDto.PaginatedCommentResponse{
		Data: data,
		Meta: dto.NewPaginationMeta(query, total),
	}, nil
}

func (s *commentService) Update(ctx context.Context, userID, commentID uuid.UUID, req commentDto.CommentRequest) (*commentDto.CommentResponse, error) {
	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, apperror.Forbidden("you can only edit your own comment")
	}
	if err := entity.CheckCommentable(&comment.Post); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	comment.Content = req.Content
	if err := s.repo.UpdateContent(ctx, comment); err != nil {
		return nil, err
	}

	res := toResponse(comment)
	return &res, nil
}

// Delete is allowed for the commenter, the post author and admins.
func (s *commentService) Delete(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != userID && comment.Post.UserID != userID {
		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if user.Role != entity.RoleAdmin {
			return apperror.Forbidden("you cannot delete this comment")
		}
	}

	return s.repo.Delete(ctx, commentID)
}

// notifyAuthor tells the post author about a new comment. Failures never fail the comment.
func (s *commentService) notifyAuthor(ctx context.Context, comment *entity.Comment) {
	if s.notifier == nil || comment.Post.UserID == comment.UserID {
		return
	}

	title := "New comment on your post"
	content := fmt.Sprintf("%s commented on \"%s\"", comment.User.Username, truncate(comment.Post.Title, 50))
	if err := s.notifier.Notify(ctx, comment.UserID, comment.Post.UserID, title, content); err != nil {
		log.Printf("Failed to notify author of post %s: %v", comment.PostID, err)
	}
}

func toResponse(c *entity.Comment) commentDto.CommentResponse {
	return commentDto.CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		Content:   c.Content,
		User:      dto.NewUserSummary(&c.User),
		CreatedAt: c.CreatedAt,
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

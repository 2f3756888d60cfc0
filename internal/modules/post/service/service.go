package post

import (
	"context"
	"log"
	"time"

	"anoa.com/alumninetwork/internal/entity"
	postDto "anoa.com/alumninetwork/internal/modules/post/dto"
	postRepo "anoa.com/alumninetwork/internal/modules/post/repository"
	reaction "anoa.com/alumninetwork/internal/modules/reaction/service"
	userRepo "anoa.com/alumninetwork/internal/modules/user/repository"
	"anoa.com/alumninetwork/pkg/apperror"
	"anoa.com/alumninetwork/pkg/dto"
	"anoa.com/alumninetwork/pkg/ratelimiter"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PostIndexer keeps the search index in step with post writes.
type PostIndexer interface {
	IndexPost(post *entity.Post) error
	DeletePost(id string) error
}

type PostService interface {
	CreatePost(ctx context.Context, userID uuid.UUID, req postDto.CreatePostRequest) (*postDto.PostResponse, error)
	GetPosts(ctx context.Context, filter postDto.PostFilter) (*postDto.PaginatedPostResponse, error)
	GetPostByID(ctx context.Context, postID uuid.UUID) (*postDto.PostResponse, error)
	UpdatePost(ctx context.Context, userID, postID uuid.UUID, req postDto.UpdatePostRequest) (*postDto.PostResponse, error)
	SetCommentLock(ctx context.Context, userID, postID uuid.UUID, locked bool) (*postDto.PostResponse, error)
	DeletePost(ctx context.Context, userID, postID uuid.UUID) error
}

type postService struct {
	postRepo        postRepo.PostRepository
	userRepo        userRepo.UserRepository
	reactionService reaction.ReactionService
	indexer         PostIndexer
	redisClient     *redis.Client
	cooldown        time.Duration
}

// NewPostService builds the service. indexer and redisClient are optional; without redis
// post creation is not rate limited.
func NewPostService(postRepo postRepo.PostRepository, userRepo userRepo.UserRepository, reactionService reaction.ReactionService, indexer PostIndexer, redisClient *redis.Client, cooldown time.Duration) PostService {
	return &postService{
		postRepo:        postRepo,
		userRepo:        userRepo,
		reactionService: reactionService,
		indexer:         indexer,
		redisClient:     redisClient,
		cooldown:        cooldown,
	}
}

func (s *postService) CreatePost(ctx context.Context, userID uuid.UUID, req postDto.CreatePostRequest) (*postDto.PostResponse, error) {
	if err := ratelimiter.Guard(ctx, s.redisClient, userID, "post", s.cooldown); err != nil {
		return nil, err
	}

	creationFailed := true
	defer func() {
		if creationFailed {
			_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, userID, "post")
		}
	}()

	post := &entity.Post{
		Title:   req.Title,
		Content: req.Content,
		UserID:  userID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	creationFailed = false

	stored, err := s.postRepo.FindByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	s.index(stored)

	return s.mapToResponse(ctx, stored)
}

func (s *postService) GetPosts(ctx context.Context, filter postDto.PostFilter) (*postDto.PaginatedPostResponse, error) {
	var authorID *uuid.UUID
	if filter.AuthorID != "" {
		id, err := uuid.Parse(filter.AuthorID)
		if err != nil {
			return nil, apperror.Validation("invalid author_id")
		}
		authorID = &id
	}

	offset := filter.Normalize()
	posts, total, err := s.postRepo.FindAll(ctx, authorID, offset, filter.Limit)
	if err != nil {
		return nil, err
	}

	data, err := s.mapToResponses(ctx, posts)
	if err != nil {
		return nil, err
	}

	return &postDto.PaginatedPostResponse{
		Data: data,
		Meta: dto.NewPaginationMeta(filter.PaginationQuery, total),
	}, nil
}

func (s *postService) GetPostByID(ctx context.Context, postID uuid.UUID) (*postDto.PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.mapToResponse(ctx, post)
}

func (s *postService) UpdatePost(ctx context.Context, userID, postID uuid.UUID, req postDto.UpdatePostRequest) (*postDto.PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, apperror.Forbidden("you can only update your own post")
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	s.index(post)
	return s.mapToResponse(ctx, post)
}

func (s *postService) SetCommentLock(ctx context.Context, userID, postID uuid.UUID, locked bool) (*postDto.PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, userID, post, "you can only lock comments on your own post"); err != nil {
		return nil, err
	}

	if err := s.postRepo.SetCommentsLocked(ctx, postID, locked); err != nil {
		return nil, err
	}

	stored, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.mapToResponse(ctx, stored)
}

func (s *postService) DeletePost(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, userID, post, "you can only delete your own post unless you are an admin"); err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	if s.indexer != nil {
		if err := s.indexer.DeletePost(postID.String()); err != nil {
			log.Printf("Failed to remove post %s from search index: %v", postID, err)
		}
	}
	return nil
}

// authorize lets the author or any admin through.
func (s *postService) authorize(ctx context.Context, userID uuid.UUID, post *entity.Post, message string) error {
	if post.UserID == userID {
		return nil
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != entity.RoleAdmin {
		return apperror.Forbidden(message)
	}
	return nil
}

func (s *postService) index(post *entity.Post) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexPost(post); err != nil {
		log.Printf("Failed to index post %s: %v", post.ID, err)
	}
}

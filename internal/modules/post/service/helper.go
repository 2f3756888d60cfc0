package post

import (
	"context"

	"anoa.com/alumninetwork/internal/entity"
	postDto "anoa.com/alumninetwork/internal/modules/post/dto"
	"anoa.com/alumninetwork/pkg/dto"
	"github.com/google/uuid"
)

func (s *postService) mapToResponse(ctx context.Context, post *entity.Post) (*postDto.PostResponse, error) {
	counts, err := s.reactionService.Counts(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	comments, err := s.postRepo.CommentCounts(ctx, []uuid.UUID{post.ID})
	if err != nil {
		return nil, err
	}

	res := newPostResponse(post, comments[post.ID], counts)
	return &res, nil
}

func (s *postService) mapToResponses(ctx context.Context, posts []entity.Post) ([]postDto.PostResponse, error) {
	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	counts, err := s.reactionService.CountsForPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	comments, err := s.postRepo.CommentCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]postDto.PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, newPostResponse(&posts[i], comments[posts[i].ID], counts[posts[i].ID]))
	}
	return out, nil
}

func newPostResponse(post *entity.Post, commentCount int64, reactions dto.ReactionCounts) postDto.PostResponse {
	return postDto.PostResponse{
		ID:             post.ID,
		Title:          post.Title,
		Content:        post.Content,
		CommentsLocked: post.CommentsLocked,
		User:           dto.NewUserSummary(&post.User),
		CommentCount:   commentCount,
		Reactions:      reactions,
		CreatedAt:      post.CreatedAt,
		UpdatedAt:      post.UpdatedAt,
	}
}

package service

import (
	"context"

	"anoa.com/alumninetwork/internal/entity"
	postRepo "anoa.com/alumninetwork/internal/modules/post/repository"
	reaction "anoa.com/alumninetwork/internal/modules/reaction/service"
	statDto "anoa.com/alumninetwork/internal/modules/stat/dto"
	statRepo "anoa.com/alumninetwork/internal/modules/stat/repository"
	"anoa.com/alumninetwork/pkg/apperror"
	"anoa.com/alumninetwork/pkg/dto"
	"github.com/google/uuid"
)

type StatService interface {
	UserStats(ctx context.Context, year int) (*statDto.UserStatsResponse, error)
	PostStats(ctx context.Context, year int) (*statDto.PostStatsResponse, error)
	AvailableYears(ctx context.Context, source string) (*statDto.YearsResponse, error)
}

type statService struct {
	repo            statRepo.StatRepository
	postRepo        postRepo.PostRepository
	reactionService reaction.ReactionService
}

func NewStatService(repo statRepo.StatRepository, postRepo postRepo.PostRepository, reactionService reaction.ReactionService) StatService {
	return &statService{
		repo:            repo,
		postRepo:        postRepo,
		reactionService: reactionService,
	}
}

// UserStats lists every account with the posts and comments it wrote in the year, plus
// per-role totals of accounts created in that year.
func (s *statService) UserStats(ctx context.Context, year int) (*statDto.UserStatsResponse, error) {
	yr := statRepo.Year(year)

	users, err := s.repo.Users(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.repo.CountsByUser(ctx, "posts", yr)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.CountsByUser(ctx, "comments", yr)
	if err != nil {
		return nil, err
	}
	roles, err := s.repo.RoleTotals(ctx, yr)
	if err != nil {
		return nil, err
	}

	res := &statDto.UserStatsResponse{
		Year:         yearOrNil(year),
		Data:         make([]statDto.UserStat, 0, len(users)),
		TotalsByRole: make(map[string]int64, 3),
	}
	for _, role := range []entity.Role{entity.RoleAdmin, entity.RoleLecturer, entity.RoleAlumnus} {
		res.TotalsByRole[role.String()] = roles[role]
	}
	for i := range users {
		u := &users[i]
		stat := statDto.UserStat{
			User:         dto.NewUserSummary(u),
			Role:         u.Role.String(),
			PostCount:    posts[u.ID],
			CommentCount: comments[u.ID],
		}
		res.TotalPosts += stat.PostCount
		res.TotalComments += stat.CommentCount
		res.Data = append(res.Data, stat)
	}

	return res, nil
}

// PostStats reports comment and reaction counts for the posts created in the year.
func (s *statService) PostStats(ctx context.Context, year int) (*statDto.PostStatsResponse, error) {
	posts, err := s.repo.Posts(ctx, statRepo.Year(year))
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	comments, err := s.postRepo.CommentCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	reactions, err := s.reactionService.CountsForPosts(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := &statDto.PostStatsResponse{
		Year: yearOrNil(year),
		Data: make([]statDto.PostStat, 0, len(posts)),
	}
	for i := range posts {
		p := &posts[i]
		counts := reactions[p.ID]
		if counts == nil {
			counts = dto.ReactionCounts{}
		}
		res.Data = append(res.Data, statDto.PostStat{
			ID:           p.ID,
			Title:        p.Title,
			User:         dto.NewUserSummary(&p.User),
			CreatedAt:    p.CreatedAt,
			CommentCount: comments[p.ID],
			Reactions:    counts,
		})
	}

	return res, nil
}

func (s *statService) AvailableYears(ctx context.Context, source string) (*statDto.YearsResponse, error) {
	if source == "" {
		source = "posts"
	}
	table, ok := statRepo.Sources[source]
	if !ok {
		return nil, apperror.Validation("source must be one of posts, comments, users, surveys")
	}

	years, err := s.repo.Years(ctx, table)
	if err != nil {
		return nil, err
	}
	if years == nil {
		years = []int{}
	}

	return &statDto.YearsResponse{Source: source, Years: years}, nil
}

func yearOrNil(year int) *int {
	if year == 0 {
		return nil
	}
	return &year
}

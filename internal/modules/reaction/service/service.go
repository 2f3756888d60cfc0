package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"anoa.com/alumninetwork/internal/entity"
	reactionDto "anoa.com/alumninetwork/internal/modules/reaction/dto"
	reactionRepo "anoa.com/alumninetwork/internal/modules/reaction/repository"
	"anoa.com/alumninetwork/pkg/apperror"
	"anoa.com/alumninetwork/pkg/dto"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const countsTTL = 7 * 24 * time.Hour

// incrIfCached only touches a counts hash that is already fully built; a missing key is
// rebuilt from the database on the next read.
var incrIfCached = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	redis.call("HINCRBY", KEYS[1], ARGV[1], ARGV[2])
end
return 0
`)

type ReactionService interface {
	Create(ctx context.Context, userID, postID uuid.UUID, req reactionDto.ReactionRequest) (*reactionDto.ReactionResponse, error)
	Update(ctx context.Context, userID, postID uuid.UUID, req reactionDto.ReactionRequest) (*reactionDto.ReactionResponse, error)
	Delete(ctx context.Context, userID, postID uuid.UUID) error
	List(ctx context.Context, userID *uuid.UUID, postID uuid.UUID) (*reactionDto.PostReactionsResponse, error)
	Counts(ctx context.Context, postID uuid.UUID) (dto.ReactionCounts, error)
	CountsForPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]dto.ReactionCounts, error)
}

type reactionService struct {
	repo        reactionRepo.ReactionRepository
	redisClient *redis.Client
}

// NewReactionService wires the counts cache; a nil redis client reads counts straight from
// the database.
func NewReactionService(repo reactionRepo.ReactionRepository, redisClient *redis.Client) ReactionService {
	return &reactionService{
		repo:        repo,
		redisClient: redisClient,
	}
}

func (s *reactionService) Create(ctx context.Context, userID, postID uuid.UUID, req reactionDto.ReactionRequest) (*reactionDto.ReactionResponse, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByPostAndUser(ctx, postID, userID); err == nil {
		return nil, apperror.Constraint("you have already reacted to this post")
	}

	reaction := &entity.Reaction{
		PostID: postID,
		UserID: userID,
		Type:   req.Type,
	}
	if err := s.repo.Create(ctx, reaction); err != nil {
		return nil, err
	}

	s.bump(ctx, postID, reaction.Type, 1)
	return s.reload(ctx, postID, userID)
}

func (s *reactionService) Update(ctx context.Context, userID, postID uuid.UUID, req reactionDto.ReactionRequest) (*reactionDto.ReactionResponse, error) {
	reaction, err := s.repo.FindByPostAndUser(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	old := reaction.Type
	if old != req.Type {
		if err := s.repo.UpdateType(ctx, reaction, req.Type); err != nil {
			return nil, err
		}
		s.bump(ctx, postID, old, -1)
		s.bump(ctx, postID, req.Type, 1)
	}

	return s.reload(ctx, postID, userID)
}

func (s *reactionService) Delete(ctx context.Context, userID, postID uuid.UUID) error {
	reaction, err := s.repo.FindByPostAndUser(ctx, postID, userID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, reaction); err != nil {
		return err
	}
	s.bump(ctx, postID, reaction.Type, -1)
	return nil
}

func (s *reactionService) List(ctx context.Context, userID *uuid.UUID, postID uuid.UUID) (*reactionDto.PostReactionsResponse, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	reactions, err := s.repo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	counts, err := s.Counts(ctx, postID)
	if err != nil {
		return nil, err
	}

	res := &reactionDto.PostReactionsResponse{
		Data:   make([]reactionDto.ReactionResponse, 0, len(reactions)),
		Counts: counts,
	}
	for i := range reactions {
		res.Data = append(res.Data, reactionDto.NewReactionResponse(&reactions[i]))
		if userID != nil && reactions[i].UserID == *userID {
			t := reactions[i].Type
			res.UserReaction = &t
		}
	}
	return res, nil
}

// Counts reads the per-type counts from redis, rebuilding the hash from the database on a
// miss.
func (s *reactionService) Counts(ctx context.Context, postID uuid.UUID) (dto.ReactionCounts, error) {
	if s.redisClient != nil {
		val, err := s.redisClient.HGetAll(ctx, countsKey(postID)).Result()
		if err == nil && len(val) > 0 {
			counts := emptyCounts()
			for name, v := range val {
				n, _ := strconv.ParseInt(v, 10, 64)
				if _, known := counts[name]; known && n > 0 {
					counts[name] = n
				}
			}
			return counts, nil
		}
	}

	byType, err := s.repo.CountByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	counts := toCounts(byType)

	if s.redisClient != nil {
		key := countsKey(postID)
		pipe := s.redisClient.Pipeline()
		pipe.Del(ctx, key)
		for name, n := range counts {
			pipe.HSet(ctx, key, name, n)
		}
		pipe.Expire(ctx, key, countsTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Printf("Failed to rebuild reaction counts for post %s: %v", postID, err)
		}
	}

	return counts, nil
}

func (s *reactionService) CountsForPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]dto.ReactionCounts, error) {
	byPost, err := s.repo.CountByPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]dto.ReactionCounts, len(postIDs))
	for _, id := range postIDs {
		out[id] = toCounts(byPost[id])
	}
	return out, nil
}

func (s *reactionService) ensurePost(ctx context.Context, postID uuid.UUID) error {
	ok, err := s.repo.PostExists(ctx, postID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("post not found")
	}
	return nil
}

func (s *reactionService) reload(ctx context.Context, postID, userID uuid.UUID) (*reactionDto.ReactionResponse, error) {
	reaction, err := s.repo.FindByPostAndUser(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	res := reactionDto.NewReactionResponse(reaction)
	return &res, nil
}

func (s *reactionService) bump(ctx context.Context, postID uuid.UUID, t entity.ReactionType, delta int64) {
	if s.redisClient == nil {
		return
	}
	if err := incrIfCached.Run(ctx, s.redisClient, []string{countsKey(postID)}, t.String(), delta).Err(); err != nil {
		log.Printf("Redis reaction update failed: %v", err)
	}
}

func countsKey(postID uuid.UUID) string {
	return fmt.Sprintf("counts:post:%s", postID.String())
}

func emptyCounts() dto.ReactionCounts {
	counts := make(dto.ReactionCounts, len(entity.ReactionTypes()))
	for _, t := range entity.ReactionTypes() {
		counts[t.String()] = 0
	}
	return counts
}

func toCounts(byType map[entity.ReactionType]int64) dto.ReactionCounts {
	counts := emptyCounts()
	for t, n := range byType {
		if t.IsValid() {
			counts[t.String()] = n
		}
	}
	return counts
}

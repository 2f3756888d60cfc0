package service

import (
	"context"
	"log"
	"strings"

	"anoa.com/alumninetwork/internal/entity"
	"anoa.com/alumninetwork/internal/modules/user/dto"
	"anoa.com/alumninetwork/internal/modules/user/repository"
	"anoa.com/alumninetwork/pkg/apperror"
	commonDto "anoa.com/alumninetwork/pkg/dto"
	"anoa.com/alumninetwork/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	// Register is the public sign-up; it refuses to create administrators.
	Register(ctx context.Context, input dto.CreateUserInput, avatar *commonDto.AvatarFile) (*dto.UserResponse, error)
	// Create accepts any role and is reserved for administrators.
	Create(ctx context.Context, input dto.CreateUserInput, avatar *commonDto.AvatarFile) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	List(ctx context.Context, query commonDto.PaginationQuery) (*dto.PaginatedUserResponse, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input dto.UpdateProfileInput, avatar *commonDto.AvatarFile) (*dto.UserResponse, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	Interactions(ctx context.Context, id uuid.UUID) ([]commonDto.UserSummary, error)
	InteractedBy(ctx context.Context, id uuid.UUID) ([]commonDto.UserSummary, error)
	ReplaceInteractions(ctx context.Context, id uuid.UUID, input dto.ReplaceInteractionsInput) (*dto.UserResponse, error)
}

type userService struct {
	repo         repository.UserRepository
	mediaStorage storage.MediaStorage
}

// NewUserService builds the service; mediaStorage may be nil, in which case avatar uploads
// are rejected.
func NewUserService(repo repository.UserRepository, mediaStorage storage.MediaStorage) UserService {
	return &userService{repo: repo, mediaStorage: mediaStorage}
}

func (s *userService) Register(ctx context.Context, input dto.CreateUserInput, avatar *commonDto.AvatarFile) (*dto.UserResponse, error) {
	if input.Role == entity.RoleAdmin {
		return nil, apperror.Forbidden("admin accounts can only be created by an administrator")
	}
	return s.Create(ctx, input, avatar)
}

func (s *userService) Create(ctx context.Context, input dto.CreateUserInput, avatar *commonDto.AvatarFile) (*dto.UserResponse, error) {
	targets, err := parseIDs(input.Interactions)
	if err != nil {
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         input.Role,
	}

	if avatar != nil {
		url, err := s.uploadAvatar(ctx, avatar)
		if err != nil {
			return nil, err
		}
		user.AvatarURL = &url
	}

	if err := s.repo.Create(ctx, user, targets); err != nil {
		s.discardAvatar(ctx, user.AvatarURL)
		return nil, err
	}

	return s.buildResponse(ctx, user)
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, user)
}

func (s *userService) List(ctx context.Context, query commonDto.PaginationQuery) (*dto.PaginatedUserResponse, error) {
	offset := query.Normalize()
	users, total, err := s.repo.FindAll(ctx, offset, query.Limit)
	if err != nil {
		return nil, err
	}

	data := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		data = append(data, dto.NewUserResponse(&users[i], nil))
	}

	return &dto.PaginatedUserResponse{
		Data: data,
		Meta: commonDto.NewPaginationMeta(query, total),
	}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, input dto.UpdateProfileInput, avatar *commonDto.AvatarFile) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Password != nil {
		hash, err := HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	previousAvatar := user.AvatarURL
	if avatar != nil {
		url, err := s.uploadAvatar(ctx, avatar)
		if err != nil {
			return nil, err
		}
		user.AvatarURL = &url
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		if avatar != nil {
			s.discardAvatar(ctx, user.AvatarURL)
		}
		return nil, err
	}

	if avatar != nil {
		s.discardAvatar(ctx, previousAvatar)
	}

	return s.buildResponse(ctx, user)
}

func (s *userService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.discardAvatar(ctx, user.AvatarURL)
	return nil
}

func (s *userService) Interactions(ctx context.Context, id uuid.UUID) ([]commonDto.UserSummary, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	users, err := s.repo.Interactions(ctx, id)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

func (s *userService) InteractedBy(ctx context.Context, id uuid.UUID) ([]commonDto.UserSummary, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	users, err := s.repo.InteractedBy(ctx, id)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

func (s *userService) ReplaceInteractions(ctx context.Context, id uuid.UUID, input dto.ReplaceInteractionsInput) (*dto.UserResponse, error) {
	targets, err := parseIDs(input.Interactions)
	if err != nil {
		return nil, err
	}
	for _, target := range targets {
		if target == id {
			return nil, apperror.Validation("cannot interact with yourself")
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceInteractions(ctx, id, targets); err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, user)
}

func (s *userService) buildResponse(ctx context.Context, user *entity.User) (*dto.UserResponse, error) {
	ids, err := s.repo.InteractionIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	res := dto.NewUserResponse(user, ids)
	return &res, nil
}

func (s *userService) uploadAvatar(ctx context.Context, avatar *commonDto.AvatarFile) (string, error) {
	if s.mediaStorage == nil {
		return "", apperror.Validation("avatar upload is not available")
	}
	return s.mediaStorage.UploadImage(ctx, avatar.Reader, avatar.FileName)
}

func (s *userService) discardAvatar(ctx context.Context, url *string) {
	if s.mediaStorage == nil || url == nil || *url == "" {
		return
	}
	if err := s.mediaStorage.DeleteImage(ctx, *url); err != nil {
		log.Printf("Failed to delete avatar %s: %v", *url, err)
	}
}

// HashPassword hashes a plaintext credential with bcrypt's default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, apperror.Validation("invalid interaction id: " + r)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func summaries(users []entity.User) []commonDto.UserSummary {
	out := make([]commonDto.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, commonDto.NewUserSummary(&users[i]))
	}
	return out
}

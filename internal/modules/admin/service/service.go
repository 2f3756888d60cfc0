package service

import (
	"context"

	"anoa.com/alumninetwork/internal/modules/admin/dto"
	userDto "anoa.com/alumninetwork/internal/modules/user/dto"
	"anoa.com/alumninetwork/internal/modules/user/repository"
	userService "anoa.com/alumninetwork/internal/modules/user/service"
	"anoa.com/alumninetwork/pkg/apperror"
	commonDto "anoa.com/alumninetwork/pkg/dto"
	"github.com/google/uuid"
)

type AdminService interface {
	CreateUser(ctx context.Context, input userDto.CreateUserInput, avatar *commonDto.AvatarFile) (*userDto.UserResponse, error)
	PendingUsers(ctx context.Context) (*dto.PendingUsersResponse, error)
	Approve(ctx context.Context, id uuid.UUID) (*dto.ActivationResponse, error)
	Deactivate(ctx context.Context, adminID, id uuid.UUID) (*dto.ActivationResponse, error)
	DeleteUser(ctx context.Context, adminID, id uuid.UUID) error
}

type adminService struct {
	userRepo    repository.UserRepository
	userService userService.UserService
}

func NewAdminService(userRepo repository.UserRepository, userService userService.UserService) AdminService {
	return &adminService{
		userRepo:    userRepo,
		userService: userService,
	}
}

func (s *adminService) CreateUser(ctx context.Context, input userDto.CreateUserInput, avatar *commonDto.AvatarFile) (*userDto.UserResponse, error) {
	return s.userService.Create(ctx, input, avatar)
}

func (s *adminService) PendingUsers(ctx context.Context) (*dto.PendingUsersResponse, error) {
	users, err := s.userRepo.FindPending(ctx)
	if err != nil {
		return nil, err
	}

	data := make([]userDto.UserResponse, 0, len(users))
	for i := range users {
		data = append(data, userDto.NewUserResponse(&users[i], nil))
	}
	return &dto.PendingUsersResponse{Data: data, Total: len(data)}, nil
}

// Approve is the only path that activates an account after creation.
func (s *adminService) Approve(ctx context.Context, id uuid.UUID) (*dto.ActivationResponse, error) {
	return s.setActive(ctx, id, true, "user approved successfully")
}

func (s *adminService) Deactivate(ctx context.Context, adminID, id uuid.UUID) (*dto.ActivationResponse, error) {
	if adminID == id {
		return nil, apperror.Validation("you cannot deactivate your own account")
	}
	return s.setActive(ctx, id, false, "user deactivated successfully")
}

func (s *adminService) DeleteUser(ctx context.Context, adminID, id uuid.UUID) error {
	if adminID == id {
		return apperror.Validation("you cannot delete your own account here")
	}
	return s.userService.DeleteAccount(ctx, id)
}

func (s *adminService) setActive(ctx context.Context, id uuid.UUID, active bool, message string) (*dto.ActivationResponse, error) {
	if err := s.userRepo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ActivationResponse{
		Message: message,
		User:    userDto.NewUserResponse(user, nil),
	}, nil
}

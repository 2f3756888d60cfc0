package repository

import (
	"context"

	"anoa.com/alumninetwork/internal/entity"
	"anoa.com/alumninetwork/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	msgUserNotFound   = "user not found"
	msgUserTaken      = "username or email already taken"
	msgTargetNotFound = "interaction target not found"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User, interactionIDs []uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByLogin(ctx context.Context, identifier string) (*entity.User, error)
	FindAll(ctx context.Context, offset, limit int) ([]entity.User, int64, error)
	FindPending(ctx context.Context) ([]entity.User, error)
	CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
	UpdateProfile(ctx context.Context, user *entity.User) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	InteractionIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	Interactions(ctx context.Context, id uuid.UUID) ([]entity.User, error)
	InteractedBy(ctx context.Context, id uuid.UUID) ([]entity.User, error)
	ReplaceInteractions(ctx context.Context, id uuid.UUID, targetIDs []uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user and its interaction edges in one transaction.
func (r *userRepository) Create(ctx context.Context, user *entity.User, interactionIDs []uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return setInteractions(tx, user.ID, interactionIDs)
	})
	return apperror.FromDB(err, msgTargetNotFound, msgUserTaken)
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, apperror.FromDB(err, msgUserNotFound, "")
	}
	return &user, nil
}

// FindByLogin matches either the username or the email.
func (r *userRepository) FindByLogin(ctx context.Context, identifier string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&user).Error; err != nil {
		return nil, apperror.FromDB(err, msgUserNotFound, "")
	}
	return &user, nil
}

func (r *userRepository) FindAll(ctx context.Context, offset, limit int) ([]entity.User, int64, error) {
	var (
		users []entity.User
		total int64
	)

	if err := r.db.WithContext(ctx).Model(&entity.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) FindPending(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", entity.RoleAlumnus, false).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var count int64
	if len(ids) == 0 {
		return 0, nil
	}
	err := r.db.WithContext(ctx).Model(&entity.User{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

// UpdateProfile writes the mutable profile columns only; role and activation are never
// touched here.
func (r *userRepository) UpdateProfile(ctx context.Context, user *entity.User) error {
	err := r.db.WithContext(ctx).
		Model(user).
		Select("username", "email", "password_hash", "first_name", "last_name", "phone", "avatar_url", "updated_at").
		Updates(user).Error
	return apperror.FromDB(err, msgUserNotFound, msgUserTaken)
}

func (r *userRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(msgUserNotFound)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(msgUserNotFound)
	}
	return nil
}

func (r *userRepository) InteractionIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var edges []entity.UserInteraction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		Order("created_at ASC").
		Find(&edges).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.TargetID)
	}
	return ids, nil
}

func (r *userRepository) Interactions(ctx context.Context, id uuid.UUID) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Joins("JOIN user_interactions ON user_interactions.target_id = users.id").
		Where("user_interactions.user_id = ?", id).
		Order("users.username ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) InteractedBy(ctx context.Context, id uuid.UUID) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Joins("JOIN user_interactions ON user_interactions.user_id = users.id").
		Where("user_interactions.target_id = ?", id).
		Order("users.username ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) ReplaceInteractions(ctx context.Context, id uuid.UUID, targetIDs []uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&entity.UserInteraction{}).Error; err != nil {
			return err
		}
		return setInteractions(tx, id, targetIDs)
	})
	return apperror.FromDB(err, msgTargetNotFound, "")
}

func setInteractions(tx *gorm.DB, userID uuid.UUID, targetIDs []uuid.UUID) error {
	targetIDs = uniqueIDs(targetIDs)
	if len(targetIDs) == 0 {
		return nil
	}

	var found int64
	if err := tx.Model(&entity.User{}).Where("id IN ?", targetIDs).Count(&found).Error; err != nil {
		return err
	}
	if found != int64(len(targetIDs)) {
		return apperror.NotFound(msgTargetNotFound)
	}

	edges := make([]entity.UserInteraction, 0, len(targetIDs))
	for _, target := range targetIDs {
		edges = append(edges, entity.UserInteraction{UserID: userID, TargetID: target})
	}
	return tx.Omit("User", "Target").Create(&edges).Error
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

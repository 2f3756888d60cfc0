// Package testutil provides an in-memory store for repository and service tests.
package testutil

import (
	"fmt"
	"testing"

	"anoa.com/alumninetwork/internal/bootstrap"
	"anoa.com/alumninetwork/internal/entity"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with foreign keys enforced and the
// full schema migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := bootstrap.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given role; the role activation hook still applies.
func CreateUser(t *testing.T, db *gorm.DB, username string, role entity.Role) *entity.User {
	t.Helper()

	user := &entity.User{
		Username:     username,
		Email:        username + "@alumni.test",
		PasswordHash: "x",
		FirstName:    username,
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreatePost inserts a post owned by author.
func CreatePost(t *testing.T, db *gorm.DB, author *entity.User, locked bool) *entity.Post {
	t.Helper()

	post := &entity.Post{
		Title:          "Reunion 2024",
		Content:        "<p>See you there</p>",
		UserID:         author.ID,
		CommentsLocked: locked,
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"anoa.com/alumninetwork/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// YearRange is the half-open interval [From, To).
type YearRange struct {
	From time.Time
	To   time.Time
}

// Year returns the range covering one calendar year in UTC, or nil for year 0.
func Year(year int) *YearRange {
	if year == 0 {
		return nil
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &YearRange{From: from, To: from.AddDate(1, 0, 0)}
}

// Sources maps the public source names onto the tables that carry created_at.
var Sources = map[string]string{
	"posts":    "posts",
	"comments": "comments",
	"users":    "users",
	"surveys":  "surveys",
}

type StatRepository interface {
	Users(ctx context.Context) ([]entity.User, error)
	RoleTotals(ctx context.Context, yr *YearRange) (map[entity.Role]int64, error)
	CountsByUser(ctx context.Context, table string, yr *YearRange) (map[uuid.UUID]int64, error)
	Posts(ctx context.Context, yr *YearRange) ([]entity.Post, error)
	Years(ctx context.Context, table string) ([]int, error)
}

type statRepository struct {
	db *gorm.DB
}

func NewStatRepository(db *gorm.DB) StatRepository {
	return &statRepository{db: db}
}

func within(column string, yr *YearRange) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if yr == nil {
			return db
		}
		return db.Where(column+" >= ? AND "+column+" < ?", yr.From, yr.To)
	}
}

func (r *statRepository) Users(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).Order("username ASC").Find(&users).Error
	return users, err
}

// RoleTotals counts accounts by role, limited to accounts created inside yr.
func (r *statRepository) RoleTotals(ctx context.Context, yr *YearRange) (map[entity.Role]int64, error) {
	var rows []struct {
		Role  entity.Role
		Total int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Select("role, COUNT(*) AS total").
		Scopes(within("created_at", yr)).
		Group("role").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[entity.Role]int64, len(rows))
	for _, row := range rows {
		totals[row.Role] = row.Total
	}
	return totals, nil
}

// CountsByUser counts the rows of table (posts or comments) authored by each user.
func (r *statRepository) CountsByUser(ctx context.Context, table string, yr *YearRange) (map[uuid.UUID]int64, error) {
	if table != "posts" && table != "comments" {
		return nil, fmt.Errorf("unsupported table %q", table)
	}

	var rows []struct {
		UserID uuid.UUID
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Table(table).
		Select("user_id, COUNT(*) AS total").
		Scopes(within("created_at", yr)).
		Group("user_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.UserID] = row.Total
	}
	return counts, nil
}

func (r *statRepository) Posts(ctx context.Context, yr *YearRange) ([]entity.Post, error) {
	var posts []entity.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Scopes(within("created_at", yr)).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

// Years lists the distinct years present in table's created_at, oldest first.
func (r *statRepository) Years(ctx context.Context, table string) ([]int, error) {
	var years []int
	if err := r.db.WithContext(ctx).
		Table(table).
		Distinct(yearExpr(r.db.Dialector.Name()) + " AS year").
		Where("created_at IS NOT NULL").
		Pluck("year", &years).Error; err != nil {
		return nil, err
	}

	sort.Ints(years)
	return years, nil
}

// yearExpr extracts the UTC calendar year of created_at, matching the ranges built by Year.
func yearExpr(dialect string) string {
	if dialect == "sqlite" {
		return "CAST(strftime('%Y', created_at) AS INTEGER)"
	}
	return "CAST(EXTRACT(YEAR FROM created_at AT TIME ZONE 'UTC') AS INTEGER)"
}

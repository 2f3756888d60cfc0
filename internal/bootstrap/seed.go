package bootstrap

import (
	"log"

	"anoa.com/alumninetwork/internal/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.UserInteraction{},
		&entity.Post{},
		&entity.Comment{},
		&entity.Reaction{},
		&entity.Survey{},
		&entity.Question{},
		&entity.Choice{},
		&entity.Answer{},
		&entity.SurveyStat{},
		&entity.Notification{},
		&entity.NotificationRecipient{},
	)
}

// SeedAdminUser creates the first administrator so that alumni accounts can be approved.
func SeedAdminUser(db *gorm.DB, email, password string) error {
	var count int64
	if err := db.Model(&entity.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := entity.User{
		Username:     "admin",
		Email:        email,
		PasswordHash: string(hashedPasswordBytes),
		FirstName:    "Administrator",
		Role:         entity.RoleAdmin,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Println("✅ Admin user seeded successfully")
	log.Printf("   Email: %s", email)

	return nil
}

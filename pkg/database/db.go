package database

import (
	"fmt"
	"log"
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB   *gorm.DB
	once sync.Once
)

// Options holds the connection settings read from config.
type Options struct {
	URL      string
	Host     string
	User     string
	Password string
	Name     string
	Port     string
}

func (o Options) DSN() string {
	if o.URL != "" {
		return o.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		o.Host, o.User, o.Password, o.Name, o.Port,
	)
}

// Connect opens the shared Postgres connection. Driver errors are translated so that
// unique and foreign key violations surface as gorm.ErrDuplicatedKey / ErrForeignKeyViolated.
func Connect(opts Options) *gorm.DB {
	once.Do(func() {
		db, err := gorm.Open(postgres.Open(opts.DSN()), &gorm.Config{
			TranslateError: true,
		})
		if err != nil {
			log.Fatalf("failed to connect database: %v", err)
		}

		DB = db
	})

	return DB
}

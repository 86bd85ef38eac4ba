// Schema migration and maintenance for the review database
// cmd/migrate/main.go
package main

import (
	"strings"
	"time"

	"conference-review-api/config"
	"conference-review-api/models"
	"conference-review-api/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	var (
		skipSchema    bool
		seedRoles     bool
		hashPasswords bool
	)
	flag.BoolVar(&skipSchema, "skip-schema", false, "do not run AutoMigrate")
	flag.BoolVar(&seedRoles, "seed", false, "insert the default roles when missing")
	flag.BoolVar(&hashPasswords, "hash-passwords", false, "bcrypt any plain-text passwords left in users")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}
	config.App = config.Load()
	config.InitLogging(false)
	config.InitDB()

	if !skipSchema {
		if err := config.DB.AutoMigrate(models.All()...); err != nil {
			logrus.WithError(err).Fatal("schema migration failed")
		}
		logrus.Info("schema is up to date")
	}

	if seedRoles {
		n, err := seedDefaultRoles(config.DB)
		if err != nil {
			logrus.WithError(err).Fatal("seeding roles failed")
		}
		logrus.WithField("inserted", n).Info("roles seeded")
	}

	if hashPasswords {
		migratePasswords(config.DB)
	}
}

func seedDefaultRoles(db *gorm.DB) (int64, error) {
	roles := make([]models.Role, 0, 5)
	for _, name := range []string{
		models.RoleSuperAdmin,
		models.RoleOrganizer,
		models.RoleAuthor,
		models.RoleCommitteeMember,
		models.RoleParticipant,
	} {
		roles = append(roles, models.Role{Role: name, CreatedAt: time.Now()})
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles)
	return res.RowsAffected, res.Error
}

func migratePasswords(db *gorm.DB) {
	var users []models.User
	if err := db.Select("user_id", "email", "password").Find(&users).Error; err != nil {
		logrus.WithError(err).Fatal("failed to fetch users")
	}

	for _, user := range users {
		// Skip if already hashed (bcrypt hashes start with $2)
		if user.Password == "" || strings.HasPrefix(user.Password, "$2") {
			continue
		}

		hashed, err := utils.HashPassword(user.Password)
		if err != nil {
			logrus.WithError(err).WithField("email", user.Email).Warn("failed to hash password")
			continue
		}
		if err := db.Model(&models.User{}).
			Where("user_id = ?", user.UserID).
			Update("password", hashed).Error; err != nil {
			logrus.WithError(err).WithField("email", user.Email).Warn("failed to update password")
			continue
		}
		logrus.WithField("email", user.Email).Info("password hashed")
	}

	logrus.Info("password migration completed")
}

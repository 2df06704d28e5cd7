package database

import (
	"context"
	"fmt"
	"strings"

	"botsales-backend/internal/infrastructure/seed"
	"botsales-backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite:"

// Open opens the seed database. "sqlite:<path>" selects the pure-Go SQLite driver;
// anything else is treated as a Postgres DSN.
// PreferSimpleProtocol avoids 42P05 ("prepared statement already exists") behind
// connection poolers such as PgBouncer.
func Open(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	if strings.HasPrefix(dsn, sqlitePrefix) {
		return gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix)), cfg)
	}
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), cfg)
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Listing{}, &models.Article{})
}

// Load reads the whole catalogue. Listings come back in stored position order.
func Load(ctx context.Context, db *gorm.DB) (seed.Data, error) {
	var users []models.User
	if err := db.WithContext(ctx).Order("member_since ASC, id ASC").Find(&users).Error; err != nil {
		return seed.Data{}, fmt.Errorf("load users: %w", err)
	}
	var listings []models.Listing
	if err := db.WithContext(ctx).Order("position ASC").Find(&listings).Error; err != nil {
		return seed.Data{}, fmt.Errorf("load listings: %w", err)
	}
	var articles []models.Article
	if err := db.WithContext(ctx).Order("published_at DESC").Find(&articles).Error; err != nil {
		return seed.Data{}, fmt.Errorf("load articles: %w", err)
	}

	out := seed.Data{}
	for _, u := range users {
		out.Users = append(out.Users, u.ToDomain())
	}
	for _, l := range listings {
		out.Listings = append(out.Listings, l.ToDomain())
	}
	for _, a := range articles {
		out.Articles = append(out.Articles, a.ToDomain())
	}
	return out, nil
}

// Save writes a snapshot in one transaction. Rows whose id already exists are left alone.
func Save(ctx context.Context, db *gorm.DB, data seed.Data) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		noop := clause.OnConflict{DoNothing: true}
		for _, u := range data.Users {
			row := models.UserFromDomain(u)
			if err := tx.Clauses(noop).Create(&row).Error; err != nil {
				return fmt.Errorf("save user %s: %w", u.ID, err)
			}
		}
		for i, l := range data.Listings {
			row := models.ListingFromDomain(l, i)
			if err := tx.Clauses(noop).Create(&row).Error; err != nil {
				return fmt.Errorf("save listing %s: %w", l.ID, err)
			}
		}
		for _, a := range data.Articles {
			row := models.ArticleFromDomain(a)
			if err := tx.Clauses(noop).Create(&row).Error; err != nil {
				return fmt.Errorf("save article %s: %w", a.ID, err)
			}
		}
		return nil
	})
}

// Ping checks the underlying connection.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

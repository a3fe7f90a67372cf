package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/studypilot/studypilot-back/internal/logger"
	"github.com/studypilot/studypilot-back/internal/models"
)

var ErrNotFound = errors.New("record not found")

// Store is the per-user record store. Every query is scoped by user id.
type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

func InitDB(dsn string, baseLog *logger.Logger) (*Store, error) {
	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	s := NewStore(gdb, baseLog)
	if err := s.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	s.log.Info("database connected and migrated")
	return s, nil
}

func NewStore(gdb *gorm.DB, baseLog *logger.Logger) *Store {
	return &Store{db: gdb, log: baseLog.With("component", "Store")}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.SubjectMark{},
		&models.ExamScheduleEntry{},
		&models.StudySession{},
		&models.ExamResult{},
		&models.SyllabusTopic{},
	)
}

func (s *Store) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Transaction runs fn against a Store bound to a single database transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(&Store{db: gtx, log: s.log})
	})
}

func (s *Store) SaveOrUpdateUser(ctx context.Context, u models.User) error {
	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", u.Email).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.db.WithContext(ctx).Create(&u).Error
		}
		return err
	}
	return s.db.WithContext(ctx).Model(&existing).Updates(u).Error
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

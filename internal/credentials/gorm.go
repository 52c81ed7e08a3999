package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type entry struct {
	Name      string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (entry) TableName() string {
	return "credential_entries"
}

// GormStore keeps credentials in a key-value table, so they survive restarts
// of the client. Any gorm dialect works; the storefront uses a SQLite file by
// default and Postgres when the DSN says so.
type GormStore struct {
	DB     *gorm.DB
	Sealer *Sealer
}

func NewGormStore(ctx context.Context, db *gorm.DB, sealer *Sealer) (*GormStore, error) {
	if err := db.WithContext(ctx).AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrate credential_entries: %w", err)
	}
	return &GormStore{DB: db, Sealer: sealer}, nil
}

func (s *GormStore) Get(ctx context.Context) (Credentials, error) {
	var rows []entry
	if err := s.DB.WithContext(ctx).
		Where("name IN ?", []string{keyToken, keyRefreshToken, keyUser}).
		Find(&rows).Error; err != nil {
		return Credentials{}, err
	}

	values := make(map[string]string, len(rows))
	for _, r := range rows {
		plain, err := s.Sealer.Open(r.Value)
		if err != nil {
			return Credentials{}, fmt.Errorf("%s: %w", r.Name, err)
		}
		values[r.Name] = plain
	}

	user, err := decodeUser(values[keyUser])
	if err != nil {
		return Credentials{}, fmt.Errorf("decode user: %w", err)
	}
	return Credentials{
		Token:        values[keyToken],
		RefreshToken: values[keyRefreshToken],
		User:         user,
	}, nil
}

func (s *GormStore) Set(ctx context.Context, c Credentials) error {
	userJSON, err := encodeUser(c.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	values := map[string]string{
		keyToken:        c.Token,
		keyRefreshToken: c.RefreshToken,
		keyUser:         userJSON,
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for name, v := range values {
			if v == "" {
				if err := tx.Where("name = ?", name).Delete(&entry{}).Error; err != nil {
					return err
				}
				continue
			}
			sealed, err := s.Sealer.Seal(v)
			if err != nil {
				return err
			}
			row := entry{Name: name, Value: sealed}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) Clear(ctx context.Context) error {
	res := s.DB.WithContext(ctx).
		Where("name IN ?", []string{keyToken, keyRefreshToken, keyUser}).
		Delete(&entry{})
	if res.Error != nil && !errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return res.Error
	}
	return nil
}

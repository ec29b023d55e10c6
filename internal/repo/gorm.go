package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"court-admin/internal/domain"
)

// Models lists every table owned by the gorm backend.
func Models() []any {
	return []any{&domain.User{}, &domain.Court{}, &domain.Staff{}, &domain.RecycleEntry{}, &domain.Setting{}}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }

// NewRepositories wires the gorm implementations of every repository.
func NewRepositories(db *gorm.DB) domain.Repositories {
	return domain.Repositories{
		Users:      NewUserRepo(db),
		Courts:     NewCourtRepo(db),
		Staff:      NewStaffRepo(db),
		RecycleBin: NewRecycleBinRepo(db),
		Settings:   NewSettingRepo(db),
	}
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDupKey(err) {
		return domain.ErrDuplicate
	}
	return err
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey：未开启 TranslateError 时驱动原样返回
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

// first 查不到时返回 (nil, nil)
func first[T any](db *gorm.DB, query string, args ...any) (*T, error) {
	var v T
	err := db.Where(query, args...).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// updateAll 按主键整行更新（不存在时不会像 Save 一样回退成插入）
func updateAll[T any](db *gorm.DB, id string, v *T) error {
	var model T
	res := db.Model(&model).Where("id = ?", id).Select("*").Omit("id", "created_at").Updates(v)
	if res.Error != nil {
		return wrapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNoRecord
	}
	return nil
}

func deleteByID[T any](db *gorm.DB, id string) error {
	var model T
	res := db.Where("id = ?", id).Delete(&model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNoRecord
	}
	return nil
}

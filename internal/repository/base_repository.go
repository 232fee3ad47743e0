package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// findOne 查詢符合條件的第一筆資料，找不到時回傳 gorm.ErrRecordNotFound
func findOne[T any](ctx context.Context, db *gorm.DB, query interface{}, args ...interface{}) (*T, error) {
	var out T
	if err := db.WithContext(ctx).Where(query, args...).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// exists 回報是否有符合條件的資料
func exists[T any](ctx context.Context, db *gorm.DB, query interface{}, args ...interface{}) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(new(T)).Where(query, args...).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// create 新增一筆資料，不連帶寫入關聯
func create[T any](ctx context.Context, db *gorm.DB, model *T) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(model).Error
}

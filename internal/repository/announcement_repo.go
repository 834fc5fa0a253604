package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coligo-portal/internal/model"
)

// AnnouncementRepository 公告数据访问接口
type AnnouncementRepository interface {
	Create(ctx context.Context, ann *model.Announcement) error
	GetByID(ctx context.Context, id string) (*model.Announcement, error)
	List(ctx context.Context) ([]model.Announcement, error)
	Update(ctx context.Context, ann *model.Announcement) error
	Delete(ctx context.Context, id string) error
}

type announcementRepo struct {
	db *gorm.DB
}

// NewAnnouncementRepo 创建 AnnouncementRepository 实例
func NewAnnouncementRepo(db *gorm.DB) AnnouncementRepository {
	return &announcementRepo{db: db}
}

// preloadAuthor 只填充作者的 name/role
func preloadAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("Author", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("user_id", "name", "role")
	})
}

func (r *announcementRepo) Create(ctx context.Context, ann *model.Announcement) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ann).Error
}

func (r *announcementRepo) GetByID(ctx context.Context, id string) (*model.Announcement, error) {
	var ann model.Announcement
	err := preloadAuthor(r.db.WithContext(ctx)).
		Where("announcement_id = ?", id).
		First(&ann).Error
	if err != nil {
		return nil, err
	}
	return &ann, nil
}

func (r *announcementRepo) List(ctx context.Context) ([]model.Announcement, error) {
	var list []model.Announcement
	err := preloadAuthor(r.db.WithContext(ctx)).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *announcementRepo) Update(ctx context.Context, ann *model.Announcement) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(ann).Error
}

func (r *announcementRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("announcement_id = ?", id).
		Delete(&model.Announcement{}).Error
}

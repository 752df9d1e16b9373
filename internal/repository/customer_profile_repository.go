package repository

import (
	"errors"

	"github.com/vijayholve/Wooden-EShop/internal/constants"
	"github.com/vijayholve/Wooden-EShop/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CustomerProfileRepository 客户资料数据访问接口
type CustomerProfileRepository interface {
	GetOrCreateByUser(userID uint) (*models.CustomerProfile, error)
	Update(profile *models.CustomerProfile) error
}

// GormCustomerProfileRepository GORM 实现
type GormCustomerProfileRepository struct {
	db *gorm.DB
}

// NewCustomerProfileRepository 创建客户资料仓库
func NewCustomerProfileRepository(db *gorm.DB) *GormCustomerProfileRepository {
	return &GormCustomerProfileRepository{db: db}
}

// GetOrCreateByUser 获取用户资料，不存在则创建空资料。
// 通过 user_id 唯一索引 + ON CONFLICT DO NOTHING 保证并发下只会落一行。
func (r *GormCustomerProfileRepository) GetOrCreateByUser(userID uint) (*models.CustomerProfile, error) {
	var profile models.CustomerProfile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := models.CustomerProfile{
		UserID:  userID,
		Country: constants.DefaultProfileCountry,
	}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&fresh).Error; err != nil {
		return nil, err
	}

	// 冲突时 fresh 没有拿到主键，统一回读
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update 更新客户资料
func (r *GormCustomerProfileRepository) Update(profile *models.CustomerProfile) error {
	return r.db.Save(profile).Error
}

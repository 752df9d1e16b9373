package models

import (
	"time"
)

// CustomerProfile 客户资料表（每个用户一条，首次访问时惰性创建）
type CustomerProfile struct {
	ID            uint       `gorm:"primarykey" json:"id"`                                                 // 主键
	UserID        uint       `gorm:"uniqueIndex;not null" json:"user_id"`                                  // 用户ID（一对一）
	PhoneNumber   string     `gorm:"type:varchar(15);default:''" json:"phone_number"`                      // 电话
	StreetAddress string     `gorm:"default:''" json:"street_address"`                                     // 街道地址
	City          string     `gorm:"type:varchar(100);default:''" json:"city"`                             // 城市
	State         string     `gorm:"type:varchar(100);default:''" json:"state"`                            // 省/州
	ZipCode       string     `gorm:"type:varchar(20);default:''" json:"zip_code"`                          // 邮编
	Country       string     `gorm:"type:varchar(100);not null;default:'Unknown'" json:"country"`          // 国家
	DateOfBirth   *time.Time `json:"date_of_birth"`                                                        // 出生日期
	Newsletter    bool       `gorm:"not null;default:false" json:"is_subscribed_to_newsletter"`            // 是否订阅邮件
	CreatedAt     time.Time  `json:"created_at"`                                                           // 创建时间
	UpdatedAt     time.Time  `json:"updated_at"`                                                           // 更新时间

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"` // 关联用户
}

// TableName 指定表名
func (CustomerProfile) TableName() string {
	return "customer_profiles"
}

package pg

import (
	"cex-spot/biz/model"

	"gorm.io/gorm"
)

// CreateUser 新增用户
func CreateUser(db *gorm.DB, u *model.User) error {
	return db.Create(u).Error
}

// GetUserByID 按 id 查询
func GetUserByID(db *gorm.DB, userID string) (*model.User, error) {
	var u model.User
	err := db.Where("user_id = ?", userID).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByName 按用户名查询
func GetUserByName(db *gorm.DB, name string) (*model.User, error) {
	var u model.User
	err := db.Where("name = ?", name).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByAPIKey 鉴权中间件用，只认启用中的用户
func GetUserByAPIKey(db *gorm.DB, apiKey string) (*model.User, error) {
	var u model.User
	err := db.Where("api_key = ? AND is_active = ?", apiKey, true).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// DeactivateUser 停用用户，历史订单和余额行保留
func DeactivateUser(db *gorm.DB, userID string) error {
	return db.Model(&model.User{}).Where("user_id = ?", userID).
		Update("is_active", false).Error
}

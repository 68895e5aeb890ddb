package service

import (
	"context"
	"errors"
	"fmt"

	"cex-spot/biz/dal/pg"
	"cex-spot/biz/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegisterUser 注册新用户并签发 api key，昵称全局唯一
func RegisterUser(ctx context.Context, name string) (*model.User, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	db := pg.GormDB.WithContext(ctx)
	if _, err := pg.GetUserByName(db, name); err == nil {
		return nil, fmt.Errorf("%w: name %q is taken", ErrValidation, name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	u := &model.User{
		UserID:   uuid.NewString(),
		Name:     name,
		Role:     model.RoleUser,
		APIKey:   "key-" + uuid.NewString(),
		IsActive: true,
	}
	if err := pg.CreateUser(db, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeactivateUser 管理端删除用户：仅停用，不清资产不撤单
// 停用后 api key 失效，挂单仍可被动成交
func DeactivateUser(ctx context.Context, userID string) (*model.User, error) {
	db := pg.GormDB.WithContext(ctx)
	u, err := pg.GetUserByID(db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil, err
	}
	if err := pg.DeactivateUser(db, userID); err != nil {
		return nil, err
	}
	u.IsActive = false
	return u, nil
}

// AuthenticateAPIKey api key 换用户，查不到或已停用按未授权处理
func AuthenticateAPIKey(ctx context.Context, apiKey string) (*model.User, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: empty api key", ErrUnauthorized)
	}
	u, err := pg.GetUserByAPIKey(pg.GormDB.WithContext(ctx), apiKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown api key", ErrUnauthorized)
		}
		return nil, err
	}
	return u, nil
}

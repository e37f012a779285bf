package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/store"
)

func (r *GormRepo) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, "user", id)
	}
	return &u, nil
}

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, notFound(err, "user", username)
	}
	return &u, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("username = ?", u.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: username %q taken", store.ErrConflict, u.Username)
		}
		return tx.Create(u).Error
	})
}

func (r *GormRepo) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "user", id)
	}
	return nil
}

func (r *GormRepo) Admin(ctx context.Context) (*models.User, error) {
	var ident models.AdminIdentity
	if err := r.DB.WithContext(ctx).First(&ident, models.AdminIdentityID).Error; err != nil {
		return nil, notFound(err, "admin", models.AdminIdentityID)
	}
	return r.GetUser(ctx, ident.UserID)
}

func (r *GormRepo) ClaimAdmin(ctx context.Context, username, passwordHash string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.AdminIdentity{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return store.ErrAdminExists
		}

		err := tx.Where("username = ?", username).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = models.User{Username: username, PasswordHash: passwordHash, Role: models.RoleAdmin}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			user.PasswordHash = passwordHash
			user.Role = models.RoleAdmin
			if err := tx.Save(&user).Error; err != nil {
				return err
			}
		}

		return tx.Create(&models.AdminIdentity{ID: models.AdminIdentityID, UserID: user.ID}).Error
	})
	if err != nil {
		if errors.Is(err, store.ErrAdminExists) {
			return nil, err
		}
		// lost a race against a concurrent claim
		if _, aerr := r.Admin(ctx); aerr == nil {
			return nil, store.ErrAdminExists
		}
		return nil, err
	}
	return &user, nil
}

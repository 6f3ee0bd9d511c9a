package models

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/uber-go/tally/v4"
	"gorm.io/gorm"
)

// UsersRepository persists users together with their address and details.
// Both associations are cascaded on persist, merge and removal.
type UsersRepository struct {
	db  *gorm.DB
	rec *Recorder
}

func NewUsersRepository(db *gorm.DB, scope tally.Scope) *UsersRepository {
	return &UsersRepository{
		db:  db,
		rec: NewRecorder(scope, "user", "orm"),
	}
}

func (r *UsersRepository) GetByID(ctx context.Context, id uint) (user *User, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpFind, "GetByID", start, err) }()

	if err := ValidateID(id); err != nil {
		return nil, err
	}
	var u User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translateGormError(err, ErrUserNotFound, ErrUserAlreadyExists, "get user")
	}
	return &u, nil
}

func (r *UsersRepository) GetByIDEager(ctx context.Context, id uint) (user *User, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpFind, "GetByIDEager", start, err) }()

	if err := ValidateID(id); err != nil {
		return nil, err
	}
	var u User
	if err := r.db.WithContext(ctx).Preload("Address").Preload("Details").First(&u, id).Error; err != nil {
		return nil, translateGormError(err, ErrUserNotFound, ErrUserAlreadyExists, "get user eagerly")
	}
	return &u, nil
}

func (r *UsersRepository) Persist(ctx context.Context, u *User) (err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpPersist, "Persist", start, err) }()

	if err := ValidateNewUser(u); err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&User{}).Where("username = ?", u.Username).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrUserAlreadyExists
		}
		return tx.Create(u).Error
	})
	if err != nil {
		u.ID = 0
		return translateGormError(err, ErrUserNotFound, ErrUserAlreadyExists, "persist user")
	}
	return nil
}

// Merge saves u and upserts its address and details.
func (r *UsersRepository) Merge(ctx context.Context, u *User) (err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpMerge, "Merge", start, err) }()

	if err := ValidateUserUpdate(u); err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&User{}, u.ID).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(u).Error
	})
	return translateGormError(err, ErrUserNotFound, ErrUserAlreadyExists, "merge user")
}

// Refresh overwrites u, including its associations, with the stored state.
func (r *UsersRepository) Refresh(ctx context.Context, u *User) (err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpRefresh, "Refresh", start, err) }()

	if u == nil {
		return ErrNilEntity
	}
	if err := ValidateID(u.ID); err != nil {
		return err
	}
	var fresh User
	if err := r.db.WithContext(ctx).Preload("Address").Preload("Details").First(&fresh, u.ID).Error; err != nil {
		return translateGormError(err, ErrUserNotFound, ErrUserAlreadyExists, "refresh user")
	}
	*u = fresh
	return nil
}

// RemoveByID deletes the user, its details and the address it owns.
func (r *UsersRepository) RemoveByID(ctx context.Context, id uint) (removed bool, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpDelete, "RemoveByID", start, err) }()

	if err := ValidateID(id); err != nil {
		return false, err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u User
		if err := tx.First(&u, id).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&UserDetails{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&u).Error; err != nil {
			return err
		}
		if u.AddressID != nil {
			return tx.Delete(&Address{}, *u.AddressID).Error
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "remove user")
	}
	return true, nil
}

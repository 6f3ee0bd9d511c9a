package models

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/uber-go/tally/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddressesRepository works on the inverse side of the User -> Address
// one-to-one: it never writes users, and removing an address only unlinks
// the user that referenced it.
type AddressesRepository struct {
	db  *gorm.DB
	rec *Recorder
}

func NewAddressesRepository(db *gorm.DB, scope tally.Scope) *AddressesRepository {
	return &AddressesRepository{
		db:  db,
		rec: NewRecorder(scope, "address", "orm"),
	}
}

func (r *AddressesRepository) GetByID(ctx context.Context, id uint) (address *Address, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpFind, "GetByID", start, err) }()

	if err := ValidateID(id); err != nil {
		return nil, err
	}
	var a Address
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translateGormError(err, ErrAddressNotFound, ErrAlreadyExists, "get address")
	}
	return &a, nil
}

func (r *AddressesRepository) GetByIDEager(ctx context.Context, id uint) (address *Address, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpFind, "GetByIDEager", start, err) }()

	if err := ValidateID(id); err != nil {
		return nil, err
	}
	var a Address
	if err := r.db.WithContext(ctx).Preload("User").First(&a, id).Error; err != nil {
		return nil, translateGormError(err, ErrAddressNotFound, ErrAlreadyExists, "get address eagerly")
	}
	return &a, nil
}

func (r *AddressesRepository) Persist(ctx context.Context, a *Address) (err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpPersist, "Persist", start, err) }()

	if err := ValidateNewAddress(a); err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(a).Error
	})
	if err != nil {
		a.ID = 0
		return translateGormError(err, ErrAddressNotFound, ErrAlreadyExists, "persist address")
	}
	return nil
}

func (r *AddressesRepository) Merge(ctx context.Context, a *Address) (err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpMerge, "Merge", start, err) }()

	if err := ValidateAddressUpdate(a); err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&Address{}, a.ID).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(a).Error
	})
	return translateGormError(err, ErrAddressNotFound, ErrAlreadyExists, "merge address")
}

func (r *AddressesRepository) Refresh(ctx context.Context, a *Address) (err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpRefresh, "Refresh", start, err) }()

	if a == nil {
		return ErrNilEntity
	}
	if err := ValidateID(a.ID); err != nil {
		return err
	}
	var fresh Address
	if err := r.db.WithContext(ctx).Preload("User").First(&fresh, a.ID).Error; err != nil {
		return translateGormError(err, ErrAddressNotFound, ErrAlreadyExists, "refresh address")
	}
	*a = fresh
	return nil
}

func (r *AddressesRepository) RemoveByID(ctx context.Context, id uint) (removed bool, err error) {
	start := time.Now()
	defer func() { r.rec.Observe(OpDelete, "RemoveByID", start, err) }()

	if err := ValidateID(id); err != nil {
		return false, err
	}
	var affected int64
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&User{}).Where("address_id = ?", id).Update("address_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&Address{}, id)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, errors.Wrap(err, "remove address")
	}
	return affected > 0, nil
}

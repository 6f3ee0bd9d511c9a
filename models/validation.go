package models

import (
	"strings"
)

// ValidateID rejects zero ids; ids are assigned by the database starting at 1.
func ValidateID(id uint) error {
	if id == 0 {
		return ErrInvalidID
	}
	return nil
}

// ValidateName rejects empty and whitespace-only names.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	return nil
}

// ValidateNewCategory checks a category before it is persisted.
func ValidateNewCategory(c *Category) error {
	if c == nil {
		return ErrNilEntity
	}
	if c.ID != 0 {
		return ErrIDAssigned
	}
	return ValidateName(c.Name)
}

// ValidateCategoryUpdate checks a category before it is merged.
func ValidateCategoryUpdate(c *Category) error {
	if c == nil {
		return ErrNilEntity
	}
	if err := ValidateID(c.ID); err != nil {
		return err
	}
	return ValidateName(c.Name)
}

func ValidateNewProduct(p *Product) error {
	if p == nil {
		return ErrNilEntity
	}
	if p.ID != 0 {
		return ErrIDAssigned
	}
	return ValidateName(p.Name)
}

func ValidateProductUpdate(p *Product) error {
	if p == nil {
		return ErrNilEntity
	}
	if err := ValidateID(p.ID); err != nil {
		return err
	}
	return ValidateName(p.Name)
}

// ValidatePage checks 1-based pagination arguments.
func ValidatePage(pageNum, resultsPerPage int) error {
	if resultsPerPage < 1 {
		return ErrInvalidPageSize
	}
	if pageNum < 1 {
		return ErrInvalidPage
	}
	return nil
}

// PageOffset returns the row offset of a 1-based page.
func PageOffset(pageNum, resultsPerPage int) int {
	return (pageNum - 1) * resultsPerPage
}

// PageCount returns how many pages of resultsPerPage rows hold total rows.
func PageCount(total int64, resultsPerPage int) int {
	if resultsPerPage < 1 || total <= 0 {
		return 0
	}
	size := int64(resultsPerPage)
	return int((total + size - 1) / size)
}

func ValidateNewUser(u *User) error {
	if u == nil {
		return ErrNilEntity
	}
	if u.ID != 0 {
		return ErrIDAssigned
	}
	return ValidateName(u.Username)
}

func ValidateUserUpdate(u *User) error {
	if u == nil {
		return ErrNilEntity
	}
	if err := ValidateID(u.ID); err != nil {
		return err
	}
	return ValidateName(u.Username)
}

func ValidateNewAddress(a *Address) error {
	if a == nil {
		return ErrNilEntity
	}
	if a.ID != 0 {
		return ErrIDAssigned
	}
	return ValidateName(a.Name)
}

func ValidateAddressUpdate(a *Address) error {
	if a == nil {
		return ErrNilEntity
	}
	if err := ValidateID(a.ID); err != nil {
		return err
	}
	return ValidateName(a.Name)
}

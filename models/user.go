package models

// User owns a one-to-one reference to an Address (users.address_id) and is the
// inverse side of its UserDetails (user_details.user_id).
type User struct {
	ID        uint         `gorm:"primaryKey"`
	Username  string       `gorm:"size:100;uniqueIndex;not null"`
	Password  string       `gorm:"size:255"`
	AddressID *uint        `gorm:"uniqueIndex"`
	Address   *Address     `gorm:"foreignKey:AddressID"`
	Details   *UserDetails `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (u *User) TableName() string {
	return "users"
}

// UserDetails is the owning side of the bidirectional User <-> UserDetails link.
type UserDetails struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"size:100"`
	Lastname string `gorm:"size:100"`
	Email    string `gorm:"size:255"`
	UserID   uint   `gorm:"uniqueIndex;not null"`
	User     *User  `gorm:"foreignKey:UserID"`
}

func (d *UserDetails) TableName() string {
	return "user_details"
}

package domain

import "time"

const RoleAdmin = "admin"

type User struct {
	ID           string    `gorm:"primaryKey;size:24" bson:"_id" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50;not null" bson:"username" json:"username"`
	PasswordHash string    `gorm:"size:100;not null" bson:"password_hash" json:"-"`
	Name         string    `gorm:"size:100;not null" bson:"name" json:"name"`
	Role         string    `gorm:"size:16;not null;default:admin" bson:"role" json:"role"`
	IsActive     bool      `gorm:"not null" bson:"is_active" json:"isActive"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// UserRef is the expanded form of a user reference.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

func (u *User) Ref() *UserRef {
	return &UserRef{ID: u.ID, Username: u.Username, Name: u.Name}
}

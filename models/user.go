package models

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// User represents a registered customer or admin
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Phone    string             `bson:"phone" json:"phone"`
	Address  string             `bson:"address" json:"address"`
	Password string             `bson:"password" json:"-"` // bcrypt hash, never returned in JSON
	IsAdmin  bool               `bson:"is_admin" json:"is_admin"`
}

// UserUpdate is a partial update; nil fields are left untouched
type UserUpdate struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Password *string `json:"password"`
}

// ValidPhone reports whether the phone number is exactly 10 digits
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

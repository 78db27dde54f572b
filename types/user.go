package types

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	gorm.Model
	Name     string `gorm:"uniqueIndex" json:"name"`
	Password string `json:"-"`
	Role     string `json:"-"`
	Notes    []Note `json:"-"`
}

func (u User) IsSet() bool {
	return u.Name != ""
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), 10)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	u.Password = string(hash)
	return nil
}

func (u User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

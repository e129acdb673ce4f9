package models

// User is an admin account. The shop has no customer accounts; orders are
// placed anonymously and managed by admins.
type User struct {
	BaseModel
	Username     string `gorm:"uniqueIndex" json:"username"`
	PasswordHash string `json:"-"`
}

package domain

import "time"

// Post is the minimal post record owned by a user. Only the account
// deletion cascade touches it.
type Post struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;index;not null" json:"user"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Name      string    `gorm:"size:64" json:"name"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	CreatedAt time.Time `json:"date"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Post) TableName() string { return "posts" }

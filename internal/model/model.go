package model

import "time"

// Report is one dated HTML snippet. Date is the unique key.
type Report struct {
	ID        uint      `gorm:"primaryKey" json:"-" bson:"-"`
	Date      string    `gorm:"size:10;uniqueIndex" json:"date" bson:"date"`
	Weekday   string    `gorm:"size:16" json:"weekday" bson:"weekday"`
	Content   string    `gorm:"type:text" json:"content" bson:"content"`
	UpdatedAt time.Time `json:"-" bson:"updated_at"`
}

// User is an admin credential record. Password holds a bcrypt hash.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"-" bson:"-"`
	Username  string    `gorm:"size:64;uniqueIndex" json:"username" bson:"username"`
	Password  string    `gorm:"column:password_hash;size:255" json:"password_hash" bson:"password_hash"`
	UpdatedAt time.Time `json:"-" bson:"updated_at"`
}

func (Report) TableName() string { return "reports" }
func (User) TableName() string   { return "users" }

const (
	DefaultDate    = "2025-03-26"
	DefaultContent = `<div class="section"><h2>AI自媒体创造营日报</h2><p>欢迎来到AI自媒体创造营日报馆！这里收录了创造营的每日动态和精彩内容。</p></div>`
)

// DefaultReport returns the seed report that every backend keeps and that
// cannot be deleted.
func DefaultReport() Report {
	return Report{Date: DefaultDate, Weekday: "周三", Content: DefaultContent}
}

type SaveReportRequest struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

type SaveReportResponse struct {
	Message string `json:"message"`
	Report  Report `json:"report"`
}

type ChangePasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"newPassword"`
}

type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Package domain contains core entities and interfaces of the bot.
package domain

import "time"

// User is a Telegram user known to the bot together with its cached
// subscription verdict.
type User struct {
	UserID          int64      `gorm:"primaryKey;column:user_id"`
	Subscribed      bool       `gorm:"column:subscribed;default:false"`
	LastValidatedAt *time.Time `gorm:"column:last_validated_at"`
}

// TableName overrides the gorm table name
func (User) TableName() string { return "users" }

// MonitoredGroup is a chat the user must be an active member of.
// ChatID may itself be a raw invite token pending resolution.
type MonitoredGroup struct {
	ChatID   string `gorm:"primaryKey;column:chat_id"`
	Username string `gorm:"column:username"`
	Title    string `gorm:"column:title"`
	Invite   string `gorm:"column:invite"`
}

// TableName overrides the gorm table name
func (MonitoredGroup) TableName() string { return "groups" }

// MonitoredJoinChannel is a chat for which a pending join request
// (not full membership) satisfies the requirement.
type MonitoredJoinChannel struct {
	ChatID string `gorm:"primaryKey;column:chat_id"`
	Invite string `gorm:"column:invite"`
}

// TableName overrides the gorm table name
func (MonitoredJoinChannel) TableName() string { return "join_monitored" }

// PendingJoinRequest is an observed join-request event. Rows are
// append-only; duplicates per (chat, user) are allowed since only
// existence is ever queried.
type PendingJoinRequest struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	ChatID      string    `gorm:"column:chat_id"`
	UserID      int64     `gorm:"column:user_id"`
	Username    string    `gorm:"column:username"`
	FullName    string    `gorm:"column:full_name"`
	RequestedAt time.Time `gorm:"column:requested_at"`
}

// TableName overrides the gorm table name
func (PendingJoinRequest) TableName() string { return "pending_join_requests" }

// Movie is a redeemable catalog entry. Downloads is monotonically
// non-decreasing and survives metadata overwrites of the same code.
type Movie struct {
	Code        string `gorm:"primaryKey;column:code"`
	Title       string `gorm:"column:title"`
	FileID      string `gorm:"column:file_id"`
	FileType    string `gorm:"column:file_type"`
	Year        string `gorm:"column:year"`
	Genre       string `gorm:"column:genre"`
	Language    string `gorm:"column:language"`
	Description string `gorm:"column:description"`
	Downloads   int64  `gorm:"column:downloads;default:0"`
}

// TableName overrides the gorm table name
func (Movie) TableName() string { return "movies" }

// Setting is a generic key/value row, last write wins.
type Setting struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

// TableName overrides the gorm table name
func (Setting) TableName() string { return "settings" }

// File kinds stored in Movie.FileType
const (
	FileTypeVideo     = "video"
	FileTypeDocument  = "document"
	FileTypeAnimation = "animation"
)

// Well-known settings keys
const (
	SettingCodesLink = "codes_link"
	SettingNextCode  = "next_code"
)

// Requirement is one unsatisfied membership requirement returned by the
// evaluator: the stored chat identifier and the stored invite value
// (never a resolved one).
type Requirement struct {
	ChatID string
	Invite string
}

// Verdict is the result of a membership evaluation.
type Verdict struct {
	Satisfied bool
	Missing   []Requirement
}

// ChatInfo is the subset of platform chat data the bot cares about.
type ChatInfo struct {
	ID       int64
	Username string
	Title    string
}

// Membership statuses reported by the platform that count as satisfied.
const (
	MemberStatusCreator       = "creator"
	MemberStatusAdministrator = "administrator"
	MemberStatusMember        = "member"
)

// MessageRef identifies a message the bot has sent.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

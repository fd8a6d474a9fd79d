package chat

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Chat struct {
	ID        uint64    `gorm:"column:chat_id;primaryKey;autoIncrement" json:"chat_id"`
	OwnerID   uint64    `gorm:"column:app_user;index;not null" json:"app_user"`
	Name      string    `gorm:"column:chat_name;type:varchar(200);not null" json:"chat_name"`
	CreatedAt time.Time `gorm:"column:created_on" json:"created_on"`
}

func (Chat) TableName() string { return "chats" }

// Message is one turn in a chat. Rows are insert-only; history order is
// created_on first, id as the tie-break.
type Message struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID    uint64    `gorm:"column:chat_id_relation;index;not null" json:"chat_id"`
	Role      string    `gorm:"type:varchar(16);not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"column:created_on;index" json:"created_on"`
}

func (Message) TableName() string { return "messages" }

type Image struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID    uint64    `gorm:"index;not null" json:"chat_id"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	CreatedAt time.Time `gorm:"column:created_on" json:"created_on"`
}

func (Image) TableName() string { return "images" }

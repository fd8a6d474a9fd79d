package db

import (
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/dkrough/chat-backend/internal/chat"
)

// Connect opens the pooled gorm handle and migrates the schema. Connections
// are checked out per operation by gorm and returned when the operation
// finishes, on error paths included.
func Connect(dsn string) *gorm.DB {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	if err := gdb.AutoMigrate(&chat.Chat{}, &chat.Message{}, &chat.Image{}, &chat.Job{}); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	return gdb
}

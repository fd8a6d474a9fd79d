package chat

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Repo is the persistence gateway. It owns the SQL shape for chats, messages
// and images; nothing else in the process issues storage mutations.
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

const defaultChatName = "New chat"

func (r *Repo) CreateChat(ctx context.Context, ownerID uint64) (*Chat, error) {
	c := &Chat{OwnerID: ownerID, Name: defaultChatName}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, classify("create chat", err)
	}
	return c, nil
}

func (r *Repo) GetChatByID(ctx context.Context, chatID uint64) (*Chat, error) {
	var c Chat
	if err := r.db.WithContext(ctx).First(&c, "chat_id = ?", chatID).Error; err != nil {
		return nil, classify("get chat", err)
	}
	return &c, nil
}

func (r *Repo) ListChatsByOwner(ctx context.Context, ownerID uint64) ([]Chat, error) {
	var chats []Chat
	err := r.db.WithContext(ctx).
		Where("app_user = ?", ownerID).
		Order("created_on DESC, chat_id DESC").
		Find(&chats).Error
	if err != nil {
		return nil, classify("list chats", err)
	}
	return chats, nil
}

func (r *Repo) RenameChat(ctx context.Context, chatID uint64, name string) error {
	res := r.db.WithContext(ctx).
		Model(&Chat{}).
		Where("chat_id = ?", chatID).
		Update("chat_name", name)
	if res.Error != nil {
		return classify("rename chat", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteChat removes the chat and everything that references it. The cascade
// runs in one transaction so no orphan messages or images survive.
func (r *Repo) DeleteChat(ctx context.Context, chatID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id_relation = ?", chatID).Delete(&Message{}).Error; err != nil {
			return classify("delete chat messages", err)
		}
		if err := tx.Where("chat_id = ?", chatID).Delete(&Image{}).Error; err != nil {
			return classify("delete chat images", err)
		}
		res := tx.Where("chat_id = ?", chatID).Delete(&Chat{})
		if res.Error != nil {
			return classify("delete chat", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// AddMessage inserts a single message. The referencing chat must exist; a
// dangling chat id is reported as ErrNotFound before anything is written.
func (r *Repo) AddMessage(ctx context.Context, chatID uint64, role, content string) (*Message, error) {
	if _, err := r.GetChatByID(ctx, chatID); err != nil {
		return nil, err
	}
	m := &Message{ChatID: chatID, Role: role, Content: content}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, classify("add message", err)
	}
	return m, nil
}

// ListMessages returns the full history in context order: created_on ASC,
// id ASC for ties. This is the exact sequence the upstream model sees.
func (r *Repo) ListMessages(ctx context.Context, chatID uint64) ([]Message, error) {
	var msgs []Message
	err := r.db.WithContext(ctx).
		Where("chat_id_relation = ?", chatID).
		Order("created_on ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, classify("list messages", err)
	}
	return msgs, nil
}

// ListRecentMessagesDesc returns the newest messages first, bounded by limit.
// Callers reverse the slice to get the chronological window.
func (r *Repo) ListRecentMessagesDesc(ctx context.Context, chatID uint64, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 20
	}
	var msgs []Message
	err := r.db.WithContext(ctx).
		Where("chat_id_relation = ?", chatID).
		Order("created_on DESC, id DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, classify("list recent messages", err)
	}
	return msgs, nil
}

func (r *Repo) SaveGeneratedImage(ctx context.Context, chatID uint64, url string) (*Image, error) {
	if _, err := r.GetChatByID(ctx, chatID); err != nil {
		return nil, err
	}
	img := &Image{ChatID: chatID, URL: url}
	if err := r.db.WithContext(ctx).Create(img).Error; err != nil {
		return nil, classify("save image", err)
	}
	return img, nil
}

func (r *Repo) ListImages(ctx context.Context, chatID uint64) ([]Image, error) {
	var imgs []Image
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_on ASC, id ASC").
		Find(&imgs).Error
	if err != nil {
		return nil, classify("list images", err)
	}
	return imgs, nil
}

// classify maps a gorm error onto the package taxonomy: missing row,
// integrity failure, or a generic backend failure wrapping the cause.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrConstraintViolation
	case strings.Contains(strings.ToLower(err.Error()), "constraint"):
		return ErrConstraintViolation
	}
	return &BackendError{Op: op, Err: err}
}

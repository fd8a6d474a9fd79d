package chat

import (
	"context"

	"github.com/dkrough/chat-backend/internal/ai"
)

// Response ingestion: a successful upstream body either becomes exactly one
// stored row or nothing at all. A body that does not carry the expected
// content field is rejected before any write happens.

func (s *Service) ingestChatResult(ctx context.Context, chatID uint64, raw []byte) (*Message, error) {
	content, err := ai.ExtractChatContent(raw)
	if err != nil {
		return nil, err
	}
	return s.repo.AddMessage(ctx, chatID, RoleAssistant, content)
}

func (s *Service) ingestImageResult(ctx context.Context, chatID uint64, raw []byte) (*Image, error) {
	url, err := ai.ExtractImageURL(raw)
	if err != nil {
		return nil, err
	}
	return s.repo.SaveGeneratedImage(ctx, chatID, url)
}

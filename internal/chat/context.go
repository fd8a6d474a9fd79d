package chat

import (
	"context"

	"github.com/dkrough/chat-backend/internal/ai"
)

// assembleContext builds the ordered {role, content} sequence for one chat:
// the stored history, chronological, bounded by the sliding window. The
// newest inbound message is already persisted when this runs, so it is the
// last element of the result. Re-running against the same stored rows always
// yields the same sequence.
func (s *Service) assembleContext(ctx context.Context, chatID uint64) ([]ai.Message, error) {
	recentDesc, err := s.repo.ListRecentMessagesDesc(ctx, chatID, s.window)
	if err != nil {
		return nil, err
	}

	// reverse to ASC (oldest -> newest); the window already dropped the
	// oldest rows beyond the budget
	msgs := make([]ai.Message, 0, len(recentDesc))
	for i := len(recentDesc) - 1; i >= 0; i-- {
		m := recentDesc[i]
		msgs = append(msgs, ai.Message{Role: m.Role, Content: m.Content})
	}
	return msgs, nil
}

package chat

import (
	"context"
	"errors"
	"log"

	"github.com/dkrough/chat-backend/internal/ai"
)

type RequestKind string

const (
	KindText  RequestKind = "text"
	KindImage RequestKind = "image"
)

// RawBodyStore retains the raw upstream body of a call whose result could
// not be persisted, so ingestion can be retried later. Implementations are
// free to expire entries.
type RawBodyStore interface {
	Retain(ctx context.Context, chatID uint64, kind RequestKind, raw []byte) error
	Load(ctx context.Context, chatID uint64, kind RequestKind) ([]byte, bool, error)
	Delete(ctx context.Context, chatID uint64, kind RequestKind) error
}

// Service is the orchestration entry point. Each call runs one request
// lifecycle: record the user message, assemble context, call upstream,
// ingest the result. It holds no state between invocations; concurrent
// requests only share the pooled DB handles inside the repo.
type Service struct {
	repo      *Repo
	client    ai.Client
	retained  RawBodyStore
	window    int
	retryOnce bool
}

func NewService(repo *Repo, client ai.Client, retained RawBodyStore, window int, retryOnce bool) *Service {
	if window <= 0 || window > 100 {
		window = 20
	}
	return &Service{repo: repo, client: client, retained: retained, window: window, retryOnce: retryOnce}
}

// PostMessage runs the text pipeline for one inbound user message and
// returns the raw upstream body plus the stored assistant message.
//
// The user message stays persisted even when a later step fails; that
// asymmetry is deliberate (no compensating delete). A malformed upstream
// body surfaces as ai.ErrMalformedResponse with nothing stored; a storage
// failure after a good upstream call surfaces as *ResultLostError with the
// raw body retained for recovery.
func (s *Service) PostMessage(ctx context.Context, chatID uint64, content string) ([]byte, *Message, error) {
	// 1) record the user message; failing here aborts before any
	//    external call is wasted
	if _, err := s.repo.AddMessage(ctx, chatID, RoleUser, content); err != nil {
		return nil, nil, err
	}

	// 2) assemble context from stored history
	msgs, err := s.assembleContext(ctx, chatID)
	if err != nil {
		return nil, nil, err
	}

	// 3) dispatch upstream
	raw, err := s.dispatch(ctx, func(ctx context.Context) ([]byte, error) {
		return s.client.ChatCompletion(ctx, msgs)
	})
	if err != nil {
		return nil, nil, err
	}

	// 4) ingest and persist the assistant result
	assistant, err := s.ingestChatResult(ctx, chatID, raw)
	if err != nil {
		if errors.Is(err, ai.ErrMalformedResponse) {
			return nil, nil, err
		}
		return nil, nil, s.resultLost(ctx, chatID, KindText, raw, err)
	}
	return raw, assistant, nil
}

// GenerateImage runs the image pipeline: the prompt is recorded as the user
// message, the generation call is dispatched without history, and the first
// returned URL is persisted as an Image row.
func (s *Service) GenerateImage(ctx context.Context, chatID uint64, prompt string, n int, size string) ([]byte, *Image, error) {
	if _, err := s.repo.AddMessage(ctx, chatID, RoleUser, prompt); err != nil {
		return nil, nil, err
	}

	raw, err := s.dispatch(ctx, func(ctx context.Context) ([]byte, error) {
		return s.client.GenerateImage(ctx, prompt, n, size)
	})
	if err != nil {
		return nil, nil, err
	}

	img, err := s.ingestImageResult(ctx, chatID, raw)
	if err != nil {
		if errors.Is(err, ai.ErrMalformedResponse) {
			return nil, nil, err
		}
		return nil, nil, s.resultLost(ctx, chatID, KindImage, raw, err)
	}
	return raw, img, nil
}

// dispatch performs one upstream call, optionally retrying once on a
// transport failure. No other classification is retried. Both the text and
// the image pipeline go through here.
func (s *Service) dispatch(ctx context.Context, call func(context.Context) ([]byte, error)) ([]byte, error) {
	raw, err := call(ctx)
	if err == nil {
		return raw, nil
	}
	var te *ai.TransportError
	if s.retryOnce && errors.As(err, &te) {
		log.Printf("[chat] transport failure, retrying once: %v", te.Cause)
		return call(ctx)
	}
	return nil, err
}

// resultLost retains the raw body (best effort) and wraps the cause so the
// caller can tell "upstream succeeded, result unrecorded" apart from an
// ordinary failure.
func (s *Service) resultLost(ctx context.Context, chatID uint64, kind RequestKind, raw []byte, cause error) error {
	if s.retained != nil {
		if err := s.retained.Retain(ctx, chatID, kind, raw); err != nil {
			log.Printf("[chat] retain raw body failed chat_id=%d kind=%s err=%v", chatID, kind, err)
		}
	}
	return &ResultLostError{ChatID: chatID, RawBody: raw, Cause: cause}
}

// RecoverResult re-runs ingestion from a retained raw body. The retained
// entry is deleted only after the row is stored, so recovery persists the
// generated content at most once.
func (s *Service) RecoverResult(ctx context.Context, chatID uint64, kind RequestKind) error {
	if s.retained == nil {
		return ErrNotFound
	}
	raw, found, err := s.retained.Load(ctx, chatID, kind)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}

	switch kind {
	case KindImage:
		_, err = s.ingestImageResult(ctx, chatID, raw)
	default:
		_, err = s.ingestChatResult(ctx, chatID, raw)
	}
	if err != nil {
		return err
	}
	return s.retained.Delete(ctx, chatID, kind)
}

// Thin pass-throughs so the HTTP layer depends on the service only.

func (s *Service) CreateChat(ctx context.Context, ownerID uint64) (*Chat, error) {
	return s.repo.CreateChat(ctx, ownerID)
}

func (s *Service) ListChats(ctx context.Context, ownerID uint64) ([]Chat, error) {
	return s.repo.ListChatsByOwner(ctx, ownerID)
}

func (s *Service) RenameChat(ctx context.Context, chatID uint64, name string) error {
	return s.repo.RenameChat(ctx, chatID, name)
}

func (s *Service) DeleteChat(ctx context.Context, chatID uint64) error {
	return s.repo.DeleteChat(ctx, chatID)
}

func (s *Service) ListMessages(ctx context.Context, chatID uint64) ([]Message, error) {
	return s.repo.ListMessages(ctx, chatID)
}

func (s *Service) ListImages(ctx context.Context, chatID uint64) ([]Image, error) {
	return s.repo.ListImages(ctx, chatID)
}

func (s *Service) CreateJob(ctx context.Context, job *Job) error {
	return s.repo.CreateJob(ctx, job)
}

func (s *Service) GetJob(ctx context.Context, jobID string) (*Job, error) {
	return s.repo.GetJobByID(ctx, jobID)
}

// ProcessJob runs the full pipeline for a queued job and records the
// outcome on the job row.
func (s *Service) ProcessJob(ctx context.Context, jobID string) error {
	if err := s.repo.MarkJobRunning(ctx, jobID); err != nil {
		return err
	}
	j, err := s.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}

	var msgID, imgID *uint64
	switch j.Kind {
	case KindImage:
		var img *Image
		_, img, err = s.GenerateImage(ctx, j.ChatID, j.Prompt, 0, "")
		if err == nil {
			imgID = &img.ID
		}
	default:
		var assistant *Message
		_, assistant, err = s.PostMessage(ctx, j.ChatID, j.Prompt)
		if err == nil {
			msgID = &assistant.ID
		}
	}

	if err != nil {
		if markErr := s.repo.MarkJobFailed(ctx, jobID, err.Error()); markErr != nil {
			log.Printf("[chat] mark job failed job=%s err=%v", jobID, markErr)
		}
		return err
	}
	return s.repo.MarkJobSucceeded(ctx, jobID, msgID, imgID)
}

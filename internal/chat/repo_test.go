package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Chat{}, &Message{}, &Image{}, &Job{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func mustCreateChat(t *testing.T, r *Repo, ownerID uint64) *Chat {
	t.Helper()
	c, err := r.CreateChat(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}
	return c
}

func TestListMessages_OrderedByCreatedOnThenID(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	c := mustCreateChat(t, repo, 1)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// insert out of chronological order, with a created_on tie between the
	// first two rows
	rows := []Message{
		{ChatID: c.ID, Role: RoleUser, Content: "tie-a", CreatedAt: base},
		{ChatID: c.ID, Role: RoleAssistant, Content: "tie-b", CreatedAt: base},
		{ChatID: c.ID, Role: RoleUser, Content: "earlier", CreatedAt: base.Add(-time.Minute)},
		{ChatID: c.ID, Role: RoleAssistant, Content: "later", CreatedAt: base.Add(time.Minute)},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("seed message %d: %v", i, err)
		}
	}

	msgs, err := repo.ListMessages(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	want := []string{"earlier", "tie-a", "tie-b", "later"}
	if len(msgs) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(msgs))
	}
	for i, w := range want {
		if msgs[i].Content != w {
			t.Fatalf("position %d: want %q, got %q", i, w, msgs[i].Content)
		}
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt) {
			t.Fatalf("created_on order violated at %d", i)
		}
		if msgs[i].CreatedAt.Equal(msgs[i-1].CreatedAt) && msgs[i].ID < msgs[i-1].ID {
			t.Fatalf("id tie-break violated at %d", i)
		}
	}
}

func TestAddMessage_UnknownChat(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)

	_, err := repo.AddMessage(context.Background(), 999, RoleUser, "hi")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRenameChat(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	c := mustCreateChat(t, repo, 7)

	if err := repo.RenameChat(context.Background(), c.ID, "travel plans"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	got, err := repo.GetChatByID(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("get chat: %v", err)
	}
	if got.Name != "travel plans" {
		t.Fatalf("expected renamed chat, got %q", got.Name)
	}

	if err := repo.RenameChat(context.Background(), 999, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound renaming missing chat, got %v", err)
	}
}

func TestDeleteChat_Cascades(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()
	c := mustCreateChat(t, repo, 3)

	if _, err := repo.AddMessage(ctx, c.ID, RoleUser, "hello"); err != nil {
		t.Fatalf("add message: %v", err)
	}
	if _, err := repo.SaveGeneratedImage(ctx, c.ID, "https://img.example/1.png"); err != nil {
		t.Fatalf("save image: %v", err)
	}

	if err := repo.DeleteChat(ctx, c.ID); err != nil {
		t.Fatalf("delete chat: %v", err)
	}

	msgs, err := repo.ListMessages(ctx, c.ID)
	if err != nil {
		t.Fatalf("list messages after delete: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected no messages after cascade, got %d", len(msgs))
	}
	imgs, err := repo.ListImages(ctx, c.ID)
	if err != nil {
		t.Fatalf("list images after delete: %v", err)
	}
	if len(imgs) != 0 {
		t.Fatalf("expected no images after cascade, got %d", len(imgs))
	}

	if err := repo.DeleteChat(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSaveGeneratedImage_UnknownChat(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)

	_, err := repo.SaveGeneratedImage(context.Background(), 42, "https://img.example/x.png")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestJobLifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()
	c := mustCreateChat(t, repo, 5)

	j := &Job{ID: "01TESTJOB0000000000000000X", ChatID: c.ID, Kind: KindText, Prompt: "hi", Status: JobQueued}
	if err := repo.CreateJob(ctx, j); err != nil {
		t.Fatalf("create job: %v", err)
	}

	if err := repo.MarkJobRunning(ctx, j.ID); err != nil {
		t.Fatalf("mark running: %v", err)
	}
	msgID := uint64(11)
	if err := repo.MarkJobSucceeded(ctx, j.ID, &msgID, nil); err != nil {
		t.Fatalf("mark succeeded: %v", err)
	}

	got, err := repo.GetJobByID(ctx, j.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if got.Status != JobSucceeded || got.ResultMessageID == nil || *got.ResultMessageID != msgID {
		t.Fatalf("unexpected job state: %+v", got)
	}

	if _, err := repo.GetJobByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing job, got %v", err)
	}
}

package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dkrough/chat-backend/internal/chat"
	"github.com/dkrough/chat-backend/internal/common"
)

func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, 10002, "invalid "+name)
		return 0, false
	}
	return id, true
}

func (h *Handler) CreateChat(c *gin.Context) {
	ownerID, okk := pathID(c, "user_id")
	if !okk {
		return
	}

	ch, err := h.ChatSvc.CreateChat(c.Request.Context(), ownerID)
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, ch)
}

func (h *Handler) ListChats(c *gin.Context) {
	ownerID, okk := pathID(c, "user_id")
	if !okk {
		return
	}

	chats, err := h.ChatSvc.ListChats(c.Request.Context(), ownerID)
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, gin.H{"chats": chats})
}

type renameChatReq struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) RenameChat(c *gin.Context) {
	chatID, okk := pathID(c, "chat_id")
	if !okk {
		return
	}

	var req renameChatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	if err := h.ChatSvc.RenameChat(c.Request.Context(), chatID, req.Name); err != nil {
		failFrom(c, err)
		return
	}
	ok(c, gin.H{"chat_id": chatID, "name": req.Name})
}

func (h *Handler) DeleteChat(c *gin.Context) {
	chatID, okk := pathID(c, "chat_id")
	if !okk {
		return
	}

	if err := h.ChatSvc.DeleteChat(c.Request.Context(), chatID); err != nil {
		failFrom(c, err)
		return
	}
	ok(c, gin.H{"chat_id": chatID})
}

type postMessageReq struct {
	Message string `json:"message" binding:"required"`
}

// PostChatMessage runs the synchronous pipeline and relays the raw upstream
// body, the contract the frontend consumes directly.
func (h *Handler) PostChatMessage(c *gin.Context) {
	chatID, okk := pathID(c, "chat_id")
	if !okk {
		return
	}

	var req postMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	raw, _, err := h.ChatSvc.PostMessage(c.Request.Context(), chatID, req.Message)
	if err != nil {
		failFrom(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func (h *Handler) ListMessages(c *gin.Context) {
	chatID, okk := pathID(c, "chat_id")
	if !okk {
		return
	}

	msgs, err := h.ChatSvc.ListMessages(c.Request.Context(), chatID)
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, gin.H{"messages": msgs})
}

type generateImageReq struct {
	Prompt string `json:"prompt" binding:"required"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

func (h *Handler) GenerateImage(c *gin.Context) {
	chatID, okk := pathID(c, "chat_id")
	if !okk {
		return
	}

	var req generateImageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	raw, _, err := h.ChatSvc.GenerateImage(c.Request.Context(), chatID, req.Prompt, req.N, req.Size)
	if err != nil {
		failFrom(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func (h *Handler) ListImages(c *gin.Context) {
	chatID, okk := pathID(c, "chat_id")
	if !okk {
		return
	}

	imgs, err := h.ChatSvc.ListImages(c.Request.Context(), chatID)
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, gin.H{"images": imgs})
}

type postMessageAsyncReq struct {
	Message string `json:"message" binding:"required"`
	Kind    string `json:"kind"`
}

// PostChatMessageAsync accepts the request, records a queued job and hands
// it to the worker. The pipeline itself runs out of process.
func (h *Handler) PostChatMessageAsync(c *gin.Context) {
	chatID, okk := pathID(c, "chat_id")
	if !okk {
		return
	}

	var req postMessageAsyncReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	kind := chat.KindText
	if req.Kind == string(chat.KindImage) {
		kind = chat.KindImage
	}

	jobID, err := common.NewULID()
	if err != nil {
		log.Printf("[PostChatMessageAsync] ulid failed chat_id=%d err=%v", chatID, err)
		fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	j := &chat.Job{
		ID:     jobID,
		ChatID: chatID,
		Kind:   kind,
		Prompt: req.Message,
		Status: chat.JobQueued,
	}
	if err := h.ChatSvc.CreateJob(c.Request.Context(), j); err != nil {
		failFrom(c, err)
		return
	}

	if err := h.Rabbit.PublishJob(c.Request.Context(), j.ID); err != nil {
		log.Printf("[PostChatMessageAsync] publish failed chat_id=%d job_id=%s err=%v", chatID, j.ID, err)
		fail(c, http.StatusInternalServerError, 50002, "enqueue failed")
		return
	}

	ok(c, gin.H{"job_id": j.ID})
}

func (h *Handler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")
	if jobID == "" {
		fail(c, http.StatusBadRequest, 10002, "job_id required")
		return
	}

	j, err := h.ChatSvc.GetJob(c.Request.Context(), jobID)
	if err != nil {
		failFrom(c, err)
		return
	}

	ok(c, gin.H{
		"job": gin.H{
			"id":                j.ID,
			"chat_id":           j.ChatID,
			"kind":              j.Kind,
			"status":            j.Status,
			"result_message_id": j.ResultMessageID,
			"result_image_id":   j.ResultImageID,
			"error":             j.Error,
			"created_at":        j.CreatedAt,
			"updated_at":        j.UpdatedAt,
		},
	})
}

type recoverResultReq struct {
	Kind string `json:"kind"`
}

// RecoverResult re-ingests a retained raw body after a ResultLost outcome.
func (h *Handler) RecoverResult(c *gin.Context) {
	chatID, okk := pathID(c, "chat_id")
	if !okk {
		return
	}

	var req recoverResultReq
	_ = c.ShouldBindJSON(&req) // allow empty {} -> text

	kind := chat.KindText
	if req.Kind == string(chat.KindImage) {
		kind = chat.KindImage
	}

	if err := h.ChatSvc.RecoverResult(c.Request.Context(), chatID, kind); err != nil {
		failFrom(c, err)
		return
	}
	ok(c, gin.H{"chat_id": chatID, "kind": kind})
}

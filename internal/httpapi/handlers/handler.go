package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkrough/chat-backend/internal/ai"
	"github.com/dkrough/chat-backend/internal/chat"
	"github.com/dkrough/chat-backend/internal/common"
	"github.com/dkrough/chat-backend/internal/store/rabbitmq"
)

type Handler struct {
	ChatSvc *chat.Service
	Rabbit  *rabbitmq.Publisher
}

func NewHandler(svc *chat.Service, rabbit *rabbitmq.Publisher) *Handler {
	return &Handler{ChatSvc: svc, Rabbit: rabbit}
}

func (h *Handler) Ping(c *gin.Context) {
	ok(c, gin.H{"pong": true})
}

func ok(c *gin.Context, data any) {
	common.Ok(c, data)
}

func fail(c *gin.Context, httpStatus int, code int, msg string) {
	common.Fail(c, httpStatus, code, msg)
}

// failFrom maps the pipeline failure taxonomy onto HTTP responses. Every
// classification keeps its own code so callers can tell them apart.
func failFrom(c *gin.Context, err error) {
	var (
		rejected   *ai.RejectedError
		transport  *ai.TransportError
		resultLost *chat.ResultLostError
		backend    *chat.BackendError
	)
	switch {
	case errors.Is(err, chat.ErrNotFound):
		fail(c, http.StatusNotFound, 40004, "not found")
	case errors.Is(err, chat.ErrConstraintViolation):
		fail(c, http.StatusConflict, 40901, "constraint violation")
	case errors.Is(err, ai.ErrAuthRejected):
		fail(c, http.StatusBadGateway, 50202, "upstream credential rejected")
	case errors.Is(err, ai.ErrMalformedResponse):
		fail(c, http.StatusBadGateway, 50203, "malformed upstream response")
	case errors.As(err, &resultLost):
		// upstream succeeded but the result was not recorded; the raw body
		// is retained for recovery
		fail(c, http.StatusBadGateway, 50204, "generated result not recorded")
	case errors.As(err, &rejected):
		fail(c, http.StatusBadGateway, 50201, "upstream rejected request")
	case errors.As(err, &transport):
		fail(c, http.StatusGatewayTimeout, 50401, "upstream unreachable")
	case errors.As(err, &backend):
		fail(c, http.StatusInternalServerError, 50001, "storage failure")
	default:
		fail(c, http.StatusInternalServerError, 50001, "internal error")
	}
}

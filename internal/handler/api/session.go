package api

import (
	"net/http"

	resdto "salon-booking/internal/handler/dto/response"
	"salon-booking/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessions *session.Service
}

func NewSessionHandler(sessions *session.Service) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// @Summary Start checkout session
// @Description Issue a signed token identifying an anonymous checkout session
// @Tags sessions
// @Produce json
// @Success 201 {object} resdto.SessionResponse
// @Failure 500 {object} httperr.Response
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	token, err := h.sessions.Issue()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.SessionResponse{
		Token:     token.Value,
		SessionID: token.SessionID,
		ExpiresAt: token.ExpiresAt,
	})
}

package api

import (
	"net/http"

	reqdto "salon-booking/internal/handler/dto/request"
	resdto "salon-booking/internal/handler/dto/response"
	"salon-booking/internal/handler/httperr"
	"salon-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type HoldHandler struct {
	cmds commands.HoldCommands
}

func NewHoldHandler(cmds commands.HoldCommands) *HoldHandler {
	return &HoldHandler{cmds: cmds}
}

// @Summary Hold slot
// @Description Reserve an offered slot for the checkout session for a limited time
// @Tags holds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateHoldRequest true "Hold request"
// @Success 201 {object} resdto.HoldResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /holds [post]
func (h *HoldHandler) Create(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req reqdto.CreateHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, CodeBadRequest, err, "Invalid request", nil)
		return
	}

	view, err := h.cmds.Hold(c.Request.Context(), commands.HoldRequest{
		SessionID:  sid,
		StaffID:    req.StaffID,
		Start:      req.Start,
		End:        req.End,
		ServiceIDs: req.ServiceIDs,
		CustomerID: req.CustomerID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromHoldView(view))
}

// @Summary Get hold
// @Description Get the session's hold with its remaining time
// @Tags holds
// @Produce json
// @Security BearerAuth
// @Param key path string true "Slot key"
// @Success 200 {object} resdto.HoldResponse
// @Failure 401 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Router /holds/{key} [get]
func (h *HoldHandler) Get(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.cmds.Get(c.Request.Context(), sid, c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromHoldView(view))
}

// @Summary Release hold
// @Tags holds
// @Security BearerAuth
// @Param key path string true "Slot key"
// @Success 204 "No Content"
// @Failure 401 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Router /holds/{key} [delete]
func (h *HoldHandler) Release(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	if err := h.cmds.Release(c.Request.Context(), sid, c.Param("key")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Confirm hold
// @Description Turn the session's hold into an appointment
// @Tags holds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Slot key"
// @Param request body reqdto.ConfirmHoldRequest true "Customer details"
// @Success 201 {object} resdto.ConfirmResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Router /holds/{key}/confirm [post]
func (h *HoldHandler) Confirm(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req reqdto.ConfirmHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, CodeBadRequest, err, "Invalid request", nil)
		return
	}

	res, err := h.cmds.Confirm(c.Request.Context(), commands.ConfirmRequest{
		SessionID:     sid,
		SlotKey:       c.Param("key"),
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromConfirmResult(res))
}

// @Summary Cancel appointment
// @Description Cancel an appointment booked by this session before the cancellation deadline
// @Tags appointments
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /appointments/{id} [delete]
func (h *HoldHandler) CancelAppointment(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, CodeBadRequest, err, "Invalid id", nil)
		return
	}
	if err := h.cmds.CancelAppointment(c.Request.Context(), sid, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

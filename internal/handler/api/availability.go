package api

import (
	"net/http"
	"time"

	reqdto "salon-booking/internal/handler/dto/request"
	resdto "salon-booking/internal/handler/dto/response"
	"salon-booking/internal/handler/httperr"
	"salon-booking/internal/handler/middleware"
	"salon-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	q   queries.AvailabilityQueries
	loc *time.Location
}

func NewAvailabilityHandler(q queries.AvailabilityQueries, loc *time.Location) *AvailabilityHandler {
	return &AvailabilityHandler{q: q, loc: loc}
}

// @Summary Available slots
// @Description List bookable slots for a service combination, grouped by salon-local day
// @Tags availability
// @Produce json
// @Param from query string true "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD), defaults to from"
// @Param service_ids query []string true "Service ids, comma separated"
// @Param staff_id query string false "Preferred staff member"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /availability [get]
func (h *AvailabilityHandler) Get(c *gin.Context) {
	var req reqdto.AvailabilityQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, CodeBadRequest, err, "Invalid request", nil)
		return
	}
	parsed, err := req.Parse(h.loc)
	if err != nil {
		respondError(c, err)
		return
	}

	sessionID, _ := middleware.GetSessionID(c)
	view, err := h.q.FindSlots(c.Request.Context(), queries.AvailabilityQuery{
		From:             parsed.From,
		To:               parsed.To,
		ServiceIDs:       parsed.ServiceIDs,
		PreferredStaffID: parsed.PreferredStaffID,
		SessionID:        sessionID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := resdto.FromAvailabilityView(view)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

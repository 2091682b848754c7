package api

import (
	"net/http"

	"salon-booking/internal/domain/cart"
	reqdto "salon-booking/internal/handler/dto/request"
	resdto "salon-booking/internal/handler/dto/response"
	"salon-booking/internal/handler/httperr"
	"salon-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartHandler struct {
	cmds commands.CartCommands
}

func NewCartHandler(cmds commands.CartCommands) *CartHandler {
	return &CartHandler{cmds: cmds}
}

// @Summary Get cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CartResponse
// @Failure 401 {object} httperr.Response
// @Router /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	ct, err := h.cmds.Get(c.Request.Context(), sid)
	if err != nil {
		respondError(c, err)
		return
	}
	writeCart(c, http.StatusOK, ct)
}

// @Summary Clear cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CartResponse
// @Router /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	ct, err := h.cmds.Clear(c.Request.Context(), sid)
	if err != nil {
		respondError(c, err)
		return
	}
	writeCart(c, http.StatusOK, ct)
}

// @Summary Add cart item
// @Description Products with the same product and variant merge; vouchers never merge
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AddCartItemRequest true "Item"
// @Success 201 {object} resdto.CartResponse
// @Failure 400 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req reqdto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, CodeBadRequest, err, "Invalid request", nil)
		return
	}
	ct, err := h.cmds.AddItem(c.Request.Context(), sid, req.ToCommand())
	if err != nil {
		respondError(c, err)
		return
	}
	writeCart(c, http.StatusCreated, ct)
}

// @Summary Update cart item
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Param request body reqdto.UpdateCartItemRequest true "Patch"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /cart/items/{id} [patch]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, CodeBadRequest, err, "Invalid id", nil)
		return
	}
	var req reqdto.UpdateCartItemRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, CodeBadRequest, bindErr, "Invalid request", nil)
		return
	}
	ct, err := h.cmds.UpdateItem(c.Request.Context(), sid, itemID, req.ToPatch())
	if err != nil {
		respondError(c, err)
		return
	}
	writeCart(c, http.StatusOK, ct)
}

// @Summary Remove cart item
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 200 {object} resdto.CartResponse
// @Failure 404 {object} httperr.Response
// @Router /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, CodeBadRequest, err, "Invalid id", nil)
		return
	}
	ct, err := h.cmds.RemoveItem(c.Request.Context(), sid, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	writeCart(c, http.StatusOK, ct)
}

// @Summary Apply discount code
// @Description Applying a code that is already on the cart changes nothing
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ApplyDiscountRequest true "Code"
// @Success 200 {object} resdto.CartResponse
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /cart/discounts [post]
func (h *CartHandler) ApplyDiscount(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req reqdto.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, CodeBadRequest, err, "Invalid request", nil)
		return
	}
	ct, err := h.cmds.ApplyDiscount(c.Request.Context(), sid, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	writeCart(c, http.StatusOK, ct)
}

// @Summary Remove discount code
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param code path string true "Code"
// @Success 200 {object} resdto.CartResponse
// @Router /cart/discounts/{code} [delete]
func (h *CartHandler) RemoveDiscount(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	ct, err := h.cmds.RemoveDiscount(c.Request.Context(), sid, c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	writeCart(c, http.StatusOK, ct)
}

// @Summary Set shipping method
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.SetShippingRequest true "Method"
// @Success 200 {object} resdto.CartResponse
// @Failure 404 {object} httperr.Response
// @Router /cart/shipping [put]
func (h *CartHandler) SetShipping(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req reqdto.SetShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, CodeBadRequest, err, "Invalid request", nil)
		return
	}
	ct, err := h.cmds.SetShippingMethod(c.Request.Context(), sid, req.MethodID)
	if err != nil {
		respondError(c, err)
		return
	}
	writeCart(c, http.StatusOK, ct)
}

// @Summary Shipping methods
// @Tags cart
// @Produce json
// @Success 200 {array} resdto.ShippingMethodResponse
// @Router /shipping-methods [get]
func (h *CartHandler) ShippingMethods(c *gin.Context) {
	resp, err := resdto.FromShippingMethods(h.cmds.ShippingMethods())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Checkout preview
// @Description Validate the cart and preview the resulting order
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 422 {object} resdto.CheckoutResponse
// @Router /cart/checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	res, err := h.cmds.Checkout(c.Request.Context(), sid)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if !res.Validation.Valid {
		status = http.StatusUnprocessableEntity
	}
	resp, err := resdto.FromCheckoutResult(res)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, resp)
}

func writeCart(c *gin.Context, status int, ct cart.Cart) {
	resp, err := resdto.FromCart(ct)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, resp)
}

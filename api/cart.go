package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/cart"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/service/menu"
)

const sessionCookie = "cart_session"

type CartHandler struct {
	carts *cart.Store
	menu  menu.MenuUseCase
}

type addCartItemRequest struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

// Quantity arrives as a string because it comes from a free-form text
// field; ParseQuantity applies the documented coercion.
type updateCartItemRequest struct {
	Quantity string `json:"quantity"`
}

type cartResponse struct {
	Items      []cart.Line `json:"items"`
	TotalItems int         `json:"total_items"`
	TotalCents int64       `json:"total_cents"`
}

func NewCartHandler(carts *cart.Store, menu menu.MenuUseCase) *CartHandler {
	return &CartHandler{carts: carts, menu: menu}
}

func (h *CartHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.view)
	router.POST("/items", h.addItem)
	router.PUT("/items/:id", h.updateItem)
	router.DELETE("/items/:id", h.removeItem)
	router.DELETE("/", h.clear)
}

func (h *CartHandler) view(c *gin.Context) {
	ledger := h.carts.Get(h.sessionID(c))
	c.JSON(http.StatusOK, toCartResponse(ledger))
}

func (h *CartHandler) addItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.menu.GetByID(c.Request.Context(), req.ItemID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
		return
	}
	if !item.Available {
		c.JSON(http.StatusConflict, gin.H{"error": "menu item is not available"})
		return
	}

	ledger := h.carts.Get(h.sessionID(c))
	ledger.AddItem(cart.Item{
		ID:          strconv.FormatInt(item.ID, 10),
		Name:        item.Name,
		Description: item.Description,
		PriceCents:  item.PriceCents,
		ImageURL:    item.ImageURL,
	}, req.Quantity)

	c.JSON(http.StatusOK, toCartResponse(ledger))
}

func (h *CartHandler) updateItem(c *gin.Context) {
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ledger := h.carts.Get(h.sessionID(c))
	ledger.UpdateQuantity(c.Param("id"), cart.ParseQuantity(req.Quantity))
	c.JSON(http.StatusOK, toCartResponse(ledger))
}

func (h *CartHandler) removeItem(c *gin.Context) {
	ledger := h.carts.Get(h.sessionID(c))
	ledger.RemoveItem(c.Param("id"))
	c.JSON(http.StatusOK, toCartResponse(ledger))
}

func (h *CartHandler) clear(c *gin.Context) {
	sid := h.sessionID(c)
	h.carts.Reset(sid)
	c.JSON(http.StatusOK, toCartResponse(h.carts.Get(sid)))
}

// sessionID reads the cart session cookie, minting one on first touch.
func (h *CartHandler) sessionID(c *gin.Context) string {
	if sid, err := c.Cookie(sessionCookie); err == nil && sid != "" {
		return sid
	}
	sid := uuid.NewString()
	c.SetCookie(sessionCookie, sid, 0, "/", "", false, true)
	return sid
}

func toCartResponse(ledger *cart.Cart) cartResponse {
	return cartResponse{
		Items:      ledger.Lines(),
		TotalItems: ledger.TotalItems(),
		TotalCents: ledger.TotalCents(),
	}
}

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/visionaryvybes/visiomancer-core/internal/catalog"
	"github.com/visionaryvybes/visiomancer-core/internal/checkout"
	"github.com/visionaryvybes/visiomancer-core/internal/domain"
	"github.com/visionaryvybes/visiomancer-core/internal/dto"
	"github.com/visionaryvybes/visiomancer-core/internal/session"
)

// Session and visitor handles the front-end sends with every request.
// Missing headers get fresh ids, echoed back so the front-end can persist
// them.
const (
	sessionHeader = "X-Session-ID"
	visitorHeader = "X-Visitor-ID"
)

type Handler struct {
	sessions *session.Manager
	router   *checkout.Router
	engine   *gin.Engine
	log      *zap.Logger
}

// NewHandler creates the HTTP surface over the cart, attribution, and
// checkout components.
func NewHandler(sessions *session.Manager, router *checkout.Router, log *zap.Logger) *Handler {
	h := &Handler{
		sessions: sessions,
		router:   router,
		engine:   gin.Default(),
		log:      log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.engine.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.engine.GET("/health", h.healthCheck)

	h.engine.GET("/cart", h.getCart)
	h.engine.POST("/cart/items", h.addItem)
	h.engine.PATCH("/cart/items", h.updateQuantity)
	h.engine.DELETE("/cart/items", h.removeItem)
	h.engine.DELETE("/cart", h.clearCart)
	h.engine.POST("/cart/open", h.openCart)
	h.engine.POST("/cart/close", h.closeCart)

	h.engine.POST("/products/resolve", h.resolveVariant)

	h.engine.POST("/track/page-visit", h.trackPageVisit)
	h.engine.GET("/events", h.listEvents)
	h.engine.POST("/identity", h.getIdentity)
	h.engine.POST("/identity/email", h.bindEmail)

	h.engine.POST("/checkout", h.checkout)
}

// session resolves the request's visitor session, minting ids for first-time
// callers and echoing them on the response.
func (h *Handler) session(c *gin.Context) *session.Session {
	sessionID := strings.TrimSpace(c.GetHeader(sessionHeader))
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	visitorID := strings.TrimSpace(c.GetHeader(visitorHeader))
	if visitorID == "" {
		visitorID = uuid.NewString()
	}

	c.Header(sessionHeader, sessionID)
	c.Header(visitorHeader, visitorID)

	return h.sessions.Session(c.Request.Context(), sessionID, visitorID)
}

func (h *Handler) cartResponse(s *session.Session) dto.CartResponse {
	return dto.CartResponse{
		Items:  s.Cart.Items(),
		Total:  s.Cart.Total(),
		Count:  s.Cart.Count(),
		IsOpen: s.Cart.IsOpen(),
	}
}

// healthCheck handles GET /health
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// getCart handles GET /cart
func (h *Handler) getCart(c *gin.Context) {
	s := h.session(c)
	c.JSON(http.StatusOK, h.cartResponse(s))
}

// addItem handles POST /cart/items. Adding also emits the add_to_cart
// attribution event for the item.
func (h *Handler) addItem(c *gin.Context) {
	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid add item request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	s := h.session(c)
	item := req.ToDomain()

	s.Cart.Add(c.Request.Context(), item)
	event := s.Attribution.TrackAddToCart(c.Request.Context(), req.Page.ToDomain(), item)

	h.log.Info("Item added to cart",
		zap.String("product_id", item.ProductID),
		zap.String("variant_id", item.VariantID),
		zap.String("event_id", event.EventID))

	c.JSON(http.StatusOK, h.cartResponse(s))
}

// updateQuantity handles PATCH /cart/items
func (h *Handler) updateQuantity(c *gin.Context) {
	var req dto.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid quantity update request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	s := h.session(c)
	s.Cart.UpdateQuantity(c.Request.Context(), req.ProductID, req.VariantID, *req.Quantity)

	c.JSON(http.StatusOK, h.cartResponse(s))
}

// removeItem handles DELETE /cart/items. With no variant_id every entry for
// the product is removed.
func (h *Handler) removeItem(c *gin.Context) {
	productID := c.Query("product_id")
	if productID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "product_id is required",
		})
		return
	}

	s := h.session(c)
	s.Cart.Remove(c.Request.Context(), productID, c.Query("variant_id"))

	c.JSON(http.StatusOK, h.cartResponse(s))
}

// clearCart handles DELETE /cart
func (h *Handler) clearCart(c *gin.Context) {
	s := h.session(c)
	s.Cart.Clear(c.Request.Context())
	c.JSON(http.StatusOK, h.cartResponse(s))
}

// openCart handles POST /cart/open
func (h *Handler) openCart(c *gin.Context) {
	s := h.session(c)
	s.Cart.Open()
	c.JSON(http.StatusOK, h.cartResponse(s))
}

// closeCart handles POST /cart/close
func (h *Handler) closeCart(c *gin.Context) {
	s := h.session(c)
	s.Cart.Close()
	c.JSON(http.StatusOK, h.cartResponse(s))
}

// resolveVariant handles POST /products/resolve. Product-detail views call it
// before addItem: it resolves the selected variant, computes the price to
// display, and reports which option values remain selectable.
func (h *Handler) resolveVariant(c *gin.Context) {
	var req dto.ResolveVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid variant resolve request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	variants := req.ToDomain()

	resp := dto.ResolveVariantResponse{
		DisplayPrice: catalog.DisplayPrice(variants, req.Selection),
		Available:    make(map[string][]string),
	}
	if v, ok := catalog.Resolve(variants, req.Selection); ok {
		resp.Resolved = true
		resp.Variant = &v
	}
	for _, name := range req.OptionNames() {
		resp.Available[name] = catalog.AvailableValues(variants, name, req.Selection)
	}

	c.JSON(http.StatusOK, resp)
}

// trackPageVisit handles POST /track/page-visit
func (h *Handler) trackPageVisit(c *gin.Context) {
	var req dto.TrackPageVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid page visit request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	s := h.session(c)
	event := s.Attribution.TrackPageVisit(c.Request.Context(), req.Page.ToDomain())

	c.JSON(http.StatusAccepted, dto.TrackResponse{EventID: event.EventID})
}

// listEvents handles GET /events
func (h *Handler) listEvents(c *gin.Context) {
	s := h.session(c)
	events := s.Attribution.Events()

	c.JSON(http.StatusOK, dto.EventLogResponse{
		Events: events,
		Count:  len(events),
	})
}

// getIdentity handles POST /identity. It takes page context in the body
// because first contact may still need to derive the external id and
// capture a click id from the landing URL.
func (h *Handler) getIdentity(c *gin.Context) {
	var req dto.TrackPageVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid identity request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	s := h.session(c)
	identity := s.Attribution.Identity(c.Request.Context(), req.Page.ToDomain())

	c.JSON(http.StatusOK, dto.IdentityResponse{
		ExternalID: identity.ExternalID,
		ClickID:    identity.ClickID,
		Email:      identity.Email,
	})
}

// bindEmail handles POST /identity/email
func (h *Handler) bindEmail(c *gin.Context) {
	var req dto.BindEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid email binding request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	s := h.session(c)
	if err := s.Attribution.BindEmail(c.Request.Context(), req.Email); err != nil {
		h.log.Error("Failed to bind email", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// checkout handles POST /checkout
func (h *Handler) checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid checkout request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	s := h.session(c)

	var addr *domain.ShippingAddress
	if req.ShippingAddress != nil {
		converted := req.ShippingAddress.ToDomain()
		addr = &converted
	}

	result, err := h.router.Checkout(c.Request.Context(), s.Cart, s.Attribution, req.Page.ToDomain(), addr)
	if err != nil {
		status := http.StatusBadGateway
		kind := "checkout_error"
		if errors.Is(err, checkout.ErrEmptyCart) || errors.Is(err, checkout.ErrAddressRequired) ||
			errors.Is(err, checkout.ErrIncompleteAddress) {
			status = http.StatusBadRequest
			kind = "validation_error"
		}
		h.log.Error("Checkout failed", zap.Error(err))
		c.JSON(status, dto.ErrorResponse{
			Error:   kind,
			Message: err.Error(),
		})
		return
	}

	resp := dto.CheckoutResponse{
		EventID: result.EventID,
		OrderID: result.OrderID,
	}
	for _, r := range result.Redirects {
		resp.Redirects = append(resp.Redirects, dto.RedirectPayload{
			URL:     r.URL,
			DelayMs: r.Delay.Milliseconds(),
		})
	}

	c.JSON(http.StatusOK, resp)
}

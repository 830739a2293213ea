package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/infra/session"
	"storefront/internal/repository"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

type Handler struct {
	accounts *services.AccountService
	catalog  *services.CatalogService
	checkout *services.CheckoutService
	sessions session.ManagerInterface
	rdb      *redis.Client
}

func NewHandler(accounts *services.AccountService, catalog *services.CatalogService, checkout *services.CheckoutService, sessions session.ManagerInterface, rdb *redis.Client) *Handler {
	return &Handler{
		accounts: accounts,
		catalog:  catalog,
		checkout: checkout,
		sessions: sessions,
		rdb:      rdb,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.GET("/products", h.ListProducts)
	r.GET("/products/:id", h.GetProduct)

	authed := r.Group("/", h.RequireSession)
	authed.POST("/checkout", h.Checkout)
	authed.GET("/orders", h.ListOrders)
	authed.GET("/orders/:id", h.GetOrder)
	authed.POST("/products", h.AddProduct)
	authed.DELETE("/products/:id", h.RemoveProduct)
}

// RequireSession is the access-control short-circuit in front of checkout
// and order history: no valid token, no service call.
func (h *Handler) RequireSession(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domain.ErrNoSession.Error()})
		return
	}

	userID, err := h.sessions.UserID(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domain.ErrNoSession.Error()})
		return
	}

	c.Set("userID", userID)
	c.Next()
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "registration successful, please log in", "user": user})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.sessions.Issue(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to establish session"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}

func (h *Handler) ListProducts(c *gin.Context) {
	filter := repository.ProductFilter{
		ProductType: c.Query("type"),
		PriceSort:   c.Query("sort"),
	}
	if v := c.Query("minPrice"); v != "" {
		filter.MinPrice, _ = strconv.ParseFloat(v, 64)
	}
	if v := c.Query("maxPrice"); v != "" {
		filter.MaxPrice, _ = strconv.ParseFloat(v, 64)
	}

	cacheKey := fmt.Sprintf("products:%s:%s:%v:%v", filter.ProductType, filter.PriceSort, filter.MinPrice, filter.MaxPrice)
	if h.rdb != nil {
		if b, err := h.rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var products []domain.Product
			if json.Unmarshal([]byte(b), &products) == nil {
				c.JSON(http.StatusOK, products)
				return
			}
		}
	}

	products, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}

	if h.rdb != nil {
		if data, err := json.Marshal(products); err == nil {
			h.rdb.Set(c.Request.Context(), cacheKey, data, 10*time.Second)
		}
	}

	c.JSON(http.StatusOK, products)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *Handler) AddProduct(c *gin.Context) {
	var req AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := &domain.Product{
		Title:       req.Title,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		ProductType: req.ProductType,
		Stocks:      req.Stocks,
		Options:     req.Options,
	}
	if err := h.catalog.AddProduct(c.Request.Context(), product); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *Handler) RemoveProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	if err := h.catalog.RemoveProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrRestricted) {
			c.JSON(http.StatusConflict, gin.H{"error": "product has been ordered and cannot be deleted"})
			return
		}
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Checkout(c *gin.Context) {
	userID := c.GetUint64("userID")

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var cart domain.Cart
	for _, line := range req.Items {
		cart.Add(domain.CartItem{
			ProductID:      line.ProductID,
			Title:          line.Title,
			UnitPrice:      line.UnitPrice,
			OptionSelected: line.OptionSelected,
			Quantity:       line.Quantity,
			ImageURL:       line.ImageURL,
		})
	}

	shipping := services.ShippingInfo{
		FullName:      req.FullName,
		Address:       req.Address,
		Landmark:      req.Landmark,
		Email:         req.Email,
		ContactNumber: req.ContactNumber,
	}
	payment := services.PaymentDetails{
		CardNumber:  req.CardNumber,
		ExpiryDate:  req.ExpiryDate,
		CVV:         req.CVV,
		GCashNumber: req.GCashNumber,
	}

	order, err := h.checkout.PlaceOrder(c.Request.Context(), userID, shipping, req.PaymentMethod, payment, cart)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.rdb != nil {
		h.rdb.Del(context.Background(), fmt.Sprintf("orders:user:%d", userID))
	}

	// The client clears its stored cart on a 201.
	c.JSON(http.StatusCreated, CheckoutResponse{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Subtotal:    order.Subtotal,
		ShippingFee: order.ShippingFee,
		TotalAmount: order.TotalAmount,
		Status:      string(order.Status),
	})
}

func (h *Handler) GetOrder(c *gin.Context) {
	userID := c.GetUint64("userID")

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.checkout.GetOrder(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *Handler) ListOrders(c *gin.Context) {
	userID := c.GetUint64("userID")
	cacheKey := fmt.Sprintf("orders:user:%d", userID)

	if h.rdb != nil {
		if b, err := h.rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var orders []domain.Order
			if json.Unmarshal([]byte(b), &orders) == nil {
				c.JSON(http.StatusOK, orders)
				return
			}
		}
	}

	orders, err := h.checkout.ListOrders(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load orders"})
		return
	}

	if h.rdb != nil {
		if data, err := json.Marshal(orders); err == nil {
			h.rdb.Set(c.Request.Context(), cacheKey, data, 10*time.Second)
		}
	}

	c.JSON(http.StatusOK, orders)
}

// respondError maps the domain error taxonomy onto HTTP statuses. Store
// failures deliberately collapse into one generic message.
func respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	var cerr *domain.ConflictError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.As(err, &cerr):
		c.JSON(http.StatusConflict, gin.H{"error": cerr.Message, "field": cerr.Field})
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrAccountDeactivated), errors.Is(err, domain.ErrNoSession):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrOrderNotProcessed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "an error occurred while processing your order, please try again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
	}
}

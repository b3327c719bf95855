package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/DaManu123/Mizu-Sushi/internal/auth"
	"github.com/DaManu123/Mizu-Sushi/internal/cart"
	"github.com/DaManu123/Mizu-Sushi/internal/offers"
	"github.com/DaManu123/Mizu-Sushi/internal/orders"
	"github.com/DaManu123/Mizu-Sushi/internal/products"
	"github.com/DaManu123/Mizu-Sushi/internal/users"
	"github.com/DaManu123/Mizu-Sushi/middleware"
	"github.com/DaManu123/Mizu-Sushi/pkg/ctxmanage"
)

// handler holds every store the endpoints need, wired once at startup.
type handler struct {
	products *products.Conf
	offers   *offers.Conf
	cart     *cart.Conf
	orders   *orders.Conf
	users    *users.Conf
	keys     *auth.Keys
	validate *validator.Validate

	// exportDir is where backup snapshots are written.
	exportDir string
}

// Config carries the dependencies API needs.
type Config struct {
	Products  *products.Conf
	Offers    *offers.Conf
	Cart      *cart.Conf
	Orders    *orders.Conf
	Users     *users.Conf
	Keys      *auth.Keys
	ExportDir string
}

func (cfg Config) check() error {
	if cfg.Products == nil || cfg.Offers == nil || cfg.Cart == nil || cfg.Orders == nil || cfg.Users == nil {
		return errors.New("all store configs are required")
	}
	if cfg.Keys == nil {
		return errors.New("auth keys are required")
	}
	return nil
}

// API builds the router with every endpoint group mounted under /v1.
func API(cfg Config) (*gin.Engine, error) {
	if err := cfg.check(); err != nil {
		return nil, err
	}

	r := gin.New()
	mode := os.Getenv("GIN_MODE")
	if mode == gin.ReleaseMode {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	m, err := middleware.NewMid(cfg.Keys)
	if err != nil {
		return nil, err
	}

	h := handler{
		products:  cfg.Products,
		offers:    cfg.Offers,
		cart:      cfg.Cart,
		orders:    cfg.Orders,
		users:     cfg.Users,
		keys:      cfg.Keys,
		validate:  validator.New(),
		exportDir: cfg.ExportDir,
	}
	if h.exportDir == "" {
		h.exportDir = "exports"
	}

	r.Use(middleware.Logger(), gin.Recovery())
	r.GET("/ping", healthCheck)

	v1 := r.Group("/v1")

	p := v1.Group("/products")
	{
		p.GET("/list", h.listProducts)
		p.GET("/view/:id", h.getProduct)
		p.GET("/categories", h.listCategories)

		p.Use(m.Authentication())
		p.POST("/create", m.Authorize(h.createProduct, auth.CapManageCatalog))
		p.PUT("/update/:id", m.Authorize(h.updateProduct, auth.CapManageCatalog))
		p.DELETE("/delete/:id", m.Authorize(h.deleteProduct, auth.CapManageCatalog))
		p.POST("/stock/:id", m.Authorize(h.adjustStock, auth.CapManageCatalog))
		p.POST("/categories", m.Authorize(h.addCategory, auth.CapManageCatalog))
		p.PUT("/category/:id", m.Authorize(h.setProductCategory, auth.CapManageCatalog))
	}

	o := v1.Group("/offers")
	{
		o.GET("/list", h.listOffers)
		o.GET("/stats", h.offerStats)

		o.Use(m.Authentication())
		o.POST("/save", m.Authorize(h.saveOffer, auth.CapManageOffers))
		o.PUT("/toggle/:id", m.Authorize(h.toggleOffer, auth.CapManageOffers))
		o.DELETE("/delete/:id", m.Authorize(h.deleteOffer, auth.CapManageOffers))
	}

	ct := v1.Group("/cart")
	{
		ct.Use(m.Authentication())
		ct.GET("/items", m.Authorize(h.cartItems, auth.CapUseCart))
		ct.POST("/add", m.Authorize(h.addToCart, auth.CapUseCart))
		ct.PUT("/quantity/:lineID", m.Authorize(h.setCartQuantity, auth.CapUseCart))
		ct.DELETE("/remove/:lineID", m.Authorize(h.removeCartLine, auth.CapUseCart))
		ct.DELETE("/clear", m.Authorize(h.clearCart, auth.CapUseCart))
	}

	or := v1.Group("/orders")
	{
		or.Use(m.Authentication())
		or.POST("/checkout", m.Authorize(h.checkout, auth.CapPlaceOrders))
		or.GET("/list", m.Authorize(h.listOrders, auth.CapManageOrders))
		or.GET("/view/:id", m.Authorize(h.getOrder, auth.CapManageOrders))
		or.PUT("/status/:id", m.Authorize(h.setOrderStatus, auth.CapManageOrders))
		or.GET("/receipt/:id", m.Authorize(h.orderReceipt, auth.CapPlaceOrders))
	}

	rp := v1.Group("/reports")
	{
		rp.Use(m.Authentication())
		rp.GET("/orders", m.Authorize(h.orderReport, auth.CapViewReports))
	}

	u := v1.Group("/users")
	{
		u.POST("/login", h.login)

		u.Use(m.Authentication())
		u.POST("/signup", m.Authorize(h.signup, auth.CapManageUsers))
		u.GET("/list", m.Authorize(h.listUsers, auth.CapManageUsers))
		u.PUT("/update/:id", m.Authorize(h.updateUser, auth.CapManageUsers))
		u.PUT("/password/:id", m.Authorize(h.changePassword, auth.CapManageUsers))
		u.DELETE("/delete/:id", m.Authorize(h.deleteUser, auth.CapManageUsers))
	}

	ad := v1.Group("/admin")
	{
		ad.Use(m.Authentication())
		ad.POST("/backup", m.Authorize(h.exportBackup, auth.CapExportData))
	}

	return r, nil
}

func healthCheck(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	fmt.Println("healthCheck handler ", traceId)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// claims pulls the verified claims the authentication middleware stored.
func claims(c *gin.Context) (auth.Claims, bool) {
	cl, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	return cl, ok
}

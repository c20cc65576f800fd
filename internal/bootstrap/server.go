package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/offshelf7/friendly-guest-gateway-sub000/api"
	"github.com/offshelf7/friendly-guest-gateway-sub000/config"
)

type Handlers struct {
	Rooms    *api.RoomHandler
	Menu     *api.MenuHandler
	Cart     *api.CartHandler
	Bookings *api.BookingHandler
	Checkout *api.CheckoutHandler
}

// NewRouter assembles the guest-facing HTTP surface.
func NewRouter(h Handlers) *gin.Engine {
	router := gin.Default()

	h.Rooms.Register(router.Group("/rooms"))
	h.Menu.Register(router.Group("/menu"))
	h.Cart.Register(router.Group("/cart"))
	h.Bookings.Register(router.Group("/bookings"))
	h.Checkout.Register(router.Group("/checkout"))

	return router
}

// Run serves the router and blocks until the context is canceled or the
// server fails, then shuts down gracefully.
func Run(ctx context.Context, cfg *config.Config, router *gin.Engine) error {
	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/offshelf7/friendly-guest-gateway-sub000/api"
	"github.com/offshelf7/friendly-guest-gateway-sub000/config"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/bootstrap"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/cache"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/cart"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/kafka"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/promo"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/repository"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/service/booking"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/service/checkout"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/service/menu"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/service/rooms"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	catalogTTL := time.Duration(cfg.Booking.CatalogCacheTTL) * time.Second
	redisCache := cache.NewRedisCache(cfg.Redis, catalogTTL)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	roomRepo := repository.NewRoomRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	menuRepo := repository.NewMenuRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	promoValidator := promo.NewValidator()
	if len(cfg.Checkout.PromoCodeURLs) > 0 {
		if err := promoValidator.LoadFromURLs(ctx, cfg.Checkout.PromoCodeURLs); err != nil {
			log.Printf("load promo codes: %v (checkout will reject all promo codes)", err)
		}
	}

	roomService := rooms.NewRoomService(roomRepo, bookingRepo, redisCache)
	menuService := menu.NewMenuService(menuRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		roomRepo,
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Booking.HoldTTLMinutes)*time.Minute,
		time.Duration(cfg.Booking.ConfirmationTTL)*time.Minute,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	checkoutService := checkout.NewCheckoutService(
		orderRepo,
		promoValidator,
		producer,
		cfg.Kafka.OrderTopic,
		cfg.Checkout.PaymentURL,
		checkout.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	carts := cart.NewStore()

	router := bootstrap.NewRouter(bootstrap.Handlers{
		Rooms:    api.NewRoomHandler(roomService),
		Menu:     api.NewMenuHandler(menuService),
		Cart:     api.NewCartHandler(carts, menuService),
		Bookings: api.NewBookingHandler(bookingService),
		Checkout: api.NewCheckoutHandler(carts, checkoutService),
	})

	if err := bootstrap.Run(ctx, cfg, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"foodhub/config"
	httpapi "foodhub/food-svc/internal/api/http"
	"foodhub/food-svc/internal/auth"
	"foodhub/food-svc/internal/geocode"
	"foodhub/food-svc/internal/mailer"
	"foodhub/food-svc/internal/service"
	"foodhub/food-svc/internal/storage"
	"foodhub/logger"

	"github.com/spf13/cobra"
)

const (
	ratingMarkerTTL = 30 * 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, loadConfig())
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.New("food-svc")

	db := config.MustInitPostgres(cfg.Database)
	defer db.Close()
	if err := storage.Migrate(ctx, db); err != nil {
		return err
	}

	rdb := config.MustInitRedis(cfg.Redis)
	defer rdb.Close()

	images, err := newImageStore(ctx, cfg.Images)
	if err != nil {
		return err
	}

	var events service.EventPublisher = storage.NopPublisher{}
	if cfg.Kafka.Enabled {
		writer := config.NewKafkaWriter(cfg.Kafka)
		defer writer.Close()
		events = storage.NewKafkaPublisher(writer)
	} else {
		log.Warn("kafka disabled, order events are not published")
	}

	var mail service.Mailer = mailer.NewLogMailer(log.Action("mail"))
	if cfg.SMTP.Enabled {
		mail = mailer.NewSMTPMailer(cfg.SMTP, cfg.Shop.Name)
	}

	catalogRepo := storage.NewCatalogRepository(db)
	offerRepo := storage.NewOfferRepository(db)
	userRepo := storage.NewUserRepository(db)
	tx := storage.NewTxManager(db)

	fence := service.Geofence{
		Latitude:      cfg.Shop.Latitude,
		Longitude:     cfg.Shop.Longitude,
		MaxDistanceKm: cfg.Shop.MaxDeliveryKm,
	}
	geocoder := geocode.NewClient(cfg.Maps.AutocompleteURL, cfg.Maps.APIKey, &http.Client{Timeout: cfg.Maps.Timeout})

	orders := service.NewOrderService(service.OrderDeps{
		Orders:  storage.NewOrderRepository(db),
		Catalog: catalogRepo,
		Offers:  offerRepo,
		Users:   userRepo,
		Tx:      tx,
		Ratings: storage.NewRatingMarker(rdb, ratingMarkerTTL),
		Sales:   storage.NewSalesReader(rdb),
		Events:  events,
		Mailer:  mail,
		QR:      service.TrackingQRGenerator{BaseURL: cfg.Shop.PublicURL},
		Log:     log.Action("orders"),
	}, service.OrderPolicy{
		TaxRate:             cfg.Orders.TaxRate,
		RejectTotalMismatch: cfg.Orders.RejectTotalMismatch,
		StrictStock:         cfg.Orders.StrictStock,
		EnforceTransitions:  cfg.Orders.EnforceTransitions,
	})

	handler := httpapi.NewHandler(
		service.NewCatalogService(catalogRepo, images, log.Action("catalog")),
		service.NewOfferService(offerRepo, catalogRepo, log.Action("offers")),
		orders,
		service.NewAddressService(storage.NewAddressRepository(db), tx, fence, geocoder, log.Action("addresses")),
		service.NewAuthService(userRepo,
			storage.NewOTPStore(rdb, cfg.Auth.OTPTTL, cfg.Auth.OTPMaxAttempts),
			auth.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
			mail, cfg.Auth.BcryptCost, log.Action("auth")),
		log,
	)

	router := httpapi.NewRouter(handler, cfg.Server.CORSOrigins)
	if cfg.Images.Driver == "local" {
		router = withUploads(router, cfg.Images)
	}
	srv := httpapi.NewServer(cfg.Server, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("food-svc starting", "addr", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newImageStore(ctx context.Context, cfg config.ImagesConfig) (service.ImageStore, error) {
	if cfg.Driver == "s3" {
		return storage.NewS3ImageStore(ctx, cfg.S3Bucket, cfg.S3Region)
	}
	return storage.NewLocalImageStore(cfg.UploadDir, cfg.PublicPrefix), nil
}

// withUploads serves locally stored images under their public prefix.
func withUploads(api http.Handler, cfg config.ImagesConfig) http.Handler {
	mux := http.NewServeMux()
	prefix := cfg.PublicPrefix + "/"
	mux.Handle(prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.UploadDir))))
	mux.Handle("/", api)
	return mux
}

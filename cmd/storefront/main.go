package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/live"
	"github.com/Skotchmaster/storefront/internal/logging"
	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/storefront/internal/middleware/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/notify"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/settings"
	"github.com/Skotchmaster/storefront/internal/shipping"
	"github.com/Skotchmaster/storefront/internal/store"
	"github.com/Skotchmaster/storefront/internal/store/filestore"
	"github.com/Skotchmaster/storefront/internal/store/gormstore"
)

const devSessionSecret = "storefront-dev-session-secret"

// openStore picks the backend: postgres, then sqlite, then the JSON file.
func openStore(ctx context.Context, cfg config.Config) (store.Store, settings.Persistence, error) {
	if cfg.DatabaseURL == "" && cfg.SQLitePath == "" {
		fs, err := filestore.Open(cfg.StorageFile)
		if err != nil {
			return nil, nil, err
		}
		return fs, fs.Settings(), nil
	}

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var (
		conn *gorm.DB
		err  error
	)
	if cfg.DatabaseURL != "" {
		conn, err = db.Open(openCtx, cfg.DatabaseURL)
	} else {
		conn, err = db.OpenSQLite(openCtx, cfg.SQLitePath)
	}
	if err != nil {
		return nil, nil, err
	}

	repo := gormstore.New(conn)
	row := settings.GormRow{DB: conn}
	if err := repo.Migrate(openCtx); err != nil {
		_ = repo.Close()
		return nil, nil, err
	}
	if err := row.Migrate(openCtx); err != nil {
		_ = repo.Close()
		return nil, nil, err
	}
	return repo, row, nil
}

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", "storefront")
	slog.SetDefault(logger)
	ctx := logging.IntoContext(context.Background(), logger)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	secret := cfg.SessionSecret
	if len(secret) == 0 {
		logger.Warn("session_secret_missing", "reason", "using the development secret")
		secret = []byte(devSessionSecret)
	}

	st, persistence, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store open: %v", err)
	}
	if cfg.SettingsFile != "" {
		persistence = settings.File{Path: cfg.SettingsFile}
	}
	sets := settings.New(persistence, models.ShippingConfig{
		APIURL:         cfg.Shipping.APIURL,
		APIID:          cfg.Shipping.APIID,
		APIToken:       cfg.Shipping.APIToken,
		FromWilayaName: cfg.Shipping.FromWilayaName,
		DefaultCommune: cfg.Shipping.DefaultCommune,
	})

	catalog := &service.CatalogService{Repo: st}
	if cfg.ESURL != "" {
		es, err := search.NewClient(ctx, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Warn("search_disabled", "reason", "elasticsearch unreachable", "error", err)
		} else {
			idx := search.New(es, cfg.ESIndex)
			if err := idx.EnsureIndex(ctx); err != nil {
				logger.Warn("search_disabled", "reason", "cannot create index", "error", err)
			} else {
				catalog.Index = idx
				if err := catalog.Reindex(ctx); err != nil {
					logger.Warn("search_reindex_failed", "error", err)
				}
			}
		}
	}

	hub := live.NewHub(nil)
	hooks := []service.OrderHook{hub}

	telegram := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID, st)
	if telegram.Enabled() {
		hooks = append(hooks, telegram)
	}

	var (
		producer    *events.Producer
		orderEvents *events.OrderEvents
	)
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
		orderEvents = &events.OrderEvents{Publisher: producer}
		hooks = append(hooks, orderEvents)
	}

	orders := &service.OrderService{Repo: st, Products: st, Hooks: hooks}
	reconciler := &shipping.Reconciler{
		Orders:    st,
		Config:    sets,
		Client:    shipping.NewHTTPClient(cfg.Shipping.HTTPTimeout),
		OnShipped: orders.Updated,
	}
	auth := &service.AuthService{Users: st, Secret: secret, TTL: cfg.SessionTTL}

	if err := auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}
	if cfg.SeedDemoData {
		n, err := service.SeedDemoData(ctx, st)
		if err != nil {
			logger.Warn("seed_failed", "error", err)
		} else if n > 0 {
			logger.Info("demo_data_seeded", "products", n)
			if err := catalog.Reindex(ctx); err != nil {
				logger.Warn("search_reindex_failed", "error", err)
			}
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.HTTPErrorHandler
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	deps := &httpserver.Deps{
		ProductHandler:  &httpserver.ProductHTTP{Svc: catalog},
		OrderHandler:    &httpserver.OrderHTTP{Svc: orders, Products: st, Hub: hub},
		SlideHandler:    &httpserver.SlideHTTP{Svc: &service.SlideService{Repo: st}},
		SiteHandler:     &httpserver.SiteHTTP{Svc: &service.SiteService{Settings: sets}},
		ShippingHandler: &httpserver.ShippingHTTP{Svc: &service.ShippingService{Settings: sets, Reconciler: reconciler}},
		UploadHandler:   &httpserver.UploadHTTP{Svc: &service.UploadService{Dir: cfg.UploadsDir}},
		AuthHandler:     &httpserver.AuthHTTP{Svc: auth, SecureCookie: cfg.IsProduction()},
		Session:         authmw.NewSessionMiddleware(secret, cfg.IsProduction()),
		UploadsDir:      cfg.UploadsDir,
		Ready:           st.Ping,
	}
	if cfg.CSRFEnabled {
		c := csrf.DefaultConfig()
		c.Secure = cfg.IsProduction()
		deps.CSRF = &c
	}
	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub.Close()
	_ = srv.Shutdown(shutdownCtx)

	telegram.Wait()
	if orderEvents != nil {
		orderEvents.Wait()
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Warn("kafka_close_failed", "error", err)
		}
	}
	if err := st.Close(); err != nil {
		logger.Warn("store_close_failed", "error", err)
	}
	logger.Info("stopped")
}

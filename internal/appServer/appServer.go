// launching the server, storage, kafka, gemini
package appServer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"

	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/user/hebrew-imagegen/config"
	"github.com/user/hebrew-imagegen/internal/database"
	"github.com/user/hebrew-imagegen/internal/pkg/events"
	"github.com/user/hebrew-imagegen/internal/pkg/gemini"
	"github.com/user/hebrew-imagegen/internal/pkg/overlay"
	"github.com/user/hebrew-imagegen/internal/pkg/storage"
	"github.com/user/hebrew-imagegen/internal/service"
	"github.com/user/hebrew-imagegen/internal/transport"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},           // ban on outdate TLS certificate
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags), // os.Stderr can be replaced with ElsasticSearch in the feature
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// newRepository picks the image store backend from config.
func newRepository(cfg *config.Config) database.ImageRepository {
	switch cfg.Storage.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		repo, err := database.NewRedisImageRepository(client, cfg.Storage.TTL)
		if err != nil {
			logrus.Fatalf("cannot connect to redis: %s", err.Error())
		}
		return repo
	case "file":
		return database.NewFileImageRepository(storage.NewFileStorage(cfg.Storage.Path))
	default:
		return database.NewMemoryImageRepository(cfg.Storage.TTL)
	}
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(new(logrus.JSONFormatter))

	imgRepo := newRepository(cfg)

	provider := gemini.NewClient(gemini.Config{
		APIKey:     config.GetEnv("GEMINI_API_KEY", ""),
		BaseURL:    cfg.Gemini.BaseURL,
		ImageModel: cfg.Gemini.ImageModel,
		TextModel:  cfg.Gemini.TextModel,
		Timeout:    cfg.Gemini.Timeout,
	})

	producer := events.NewNopProducer()
	if cfg.Kafka.Enabled {
		producer = events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	renderer := overlay.NewRenderer(cfg.Overlay.FontDir)
	imgService := service.NewImageService(imgRepo, provider, renderer, producer)
	imgHandler := transport.NewImageHandler(imgService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(imgHandler)); err != nil {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	if err := producer.Close(); err != nil {
		logrus.Errorf("error occured on closing event producer: %s", err.Error())
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}

}

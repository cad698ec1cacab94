package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"workboard/internal/board"
	"workboard/internal/broadcast"
	"workboard/internal/client"
	"workboard/internal/config"
	"workboard/internal/handler"
	"workboard/internal/middleware"
	"workboard/internal/notify"
	"workboard/internal/repository"
)

type Server struct {
	Engine *gin.Engine
	Board  *board.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	Config *config.Config

	publisher *broadcast.RedisPublisher
}

func Init(cfg *config.Config) (*Server, error) {
	s := &Server{Config: cfg}

	api, err := client.New(cfg.TaskAPIURL, cfg.TaskAPIToken, cfg.TaskAPITimeout)
	if err != nil {
		return nil, err
	}

	store := board.NewStore(cfg.Columns)

	feed := notify.NewFeed(100)
	notifiers := notify.Multi{notify.Log{}, feed}
	var lister notify.Lister = feed

	// Notifications are kept in Postgres when a database is configured
	if cfg.DatabaseEnabled() {
		db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		log.Info("connected to database")

		repo := repository.NewNotificationRepository(db)
		if err := repo.Migrate(context.Background()); err != nil {
			return nil, fmt.Errorf("migrate notifications: %w", err)
		}
		notifiers = append(notifiers, notify.NewPersistent(repo, 5*time.Second))
		lister = repo
		s.DB = db
	}

	// Board changes are pushed to renderers when Redis is configured
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		s.Redis = redis.NewClient(opts)
		s.publisher = broadcast.NewRedisPublisher(s.Redis, cfg.BoardChannel, cfg.Columns)
		s.publisher.Start()
		store.OnChange(s.publisher.Hook())
		log.WithField("channel", cfg.BoardChannel).Info("publishing board changes")
	}

	s.Board = board.NewEngine(store, api, notifiers)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.TaskAPITimeout)
	defer cancel()
	if err := s.Board.Reload(ctx); err != nil {
		log.WithError(err).Warn("initial board load failed, starting with an empty board")
	}

	s.Engine = NewRouter(cfg.JWTSecret, s.Board, lister)
	return s, nil
}

// NewRouter builds the HTTP routes served to the board front-end.
func NewRouter(jwtSecret string, engine *board.Engine, lister notify.Lister) *gin.Engine {
	r := gin.Default()

	boardHandler := handler.NewBoardHandler(engine)
	notificationHandler := handler.NewNotificationHandler(lister)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(jwtSecret))
	{
		// Board routes
		authorized.GET("/board", boardHandler.Get)
		authorized.POST("/board/drag-end", boardHandler.DragEnd)
		authorized.POST("/board/reload", boardHandler.Reload)
		authorized.POST("/board/tasks", boardHandler.CreateTask)
		authorized.PATCH("/board/tasks/:id", boardHandler.UpdateTask)
		authorized.DELETE("/board/tasks/:id", boardHandler.DeleteTask)

		// Notification routes
		authorized.GET("/notifications", notificationHandler.List)
	}
	return r
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Infof("server running on port %s", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %s", err)
	}

	// Let pending status updates settle so their rollbacks and notifications are not lost
	s.Board.Wait()

	if s.publisher != nil {
		s.publisher.Close()
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.WithError(err).Warn("closing redis")
		}
	}
	if s.DB != nil {
		if sqlDB, err := s.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	log.Info("server exited properly")
}

package main

import (
	log "github.com/sirupsen/logrus"

	_ "workboard/docs"
	"workboard/internal/config"
	"workboard/internal/server"
)

// @title           Workboard API
// @version         1.0
// @description     Kanban board service for work orders: drag and drop with optimistic updates.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()
	log.SetLevel(cfg.LogLevel)

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("server initialization failed: %v", err)
	}

	s.Run()
}

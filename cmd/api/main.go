package main

import (
	"log"
	"net/http"

	"github.com/BruksfildServices01/barberflow/internal/config"
	croninit "github.com/BruksfildServices01/barberflow/internal/cron"
	dbpkg "github.com/BruksfildServices01/barberflow/internal/db"
	infraRepo "github.com/BruksfildServices01/barberflow/internal/infra/repository"
	"github.com/BruksfildServices01/barberflow/internal/realtime"
	"github.com/BruksfildServices01/barberflow/internal/routes"
	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	notifier := realtime.NewPublisher(cfg.RedisAddr)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, notifier)

	croninit.StartJobs(db, infraRepo.NewSchedulingGormRepository(db))

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

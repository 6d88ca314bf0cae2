package main

import (
	"context"
	"log"

	"dce-cancel-be/internal/bootstrap"
	"dce-cancel-be/internal/config"
	"dce-cancel-be/internal/server"
	"dce-cancel-be/internal/tracer"
	"dce-cancel-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (self-disables unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database (authorization store)
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	if err := container.AuditService.Run(context.Background()); err != nil {
		log.Printf("Background Audit Error: %v", err)
	}
	if container.ConsumerService != nil {
		go func() {
			log.Println("Background: Starting Consumer Service...")
			if err := container.ConsumerService.Start(); err != nil {
				log.Printf("Background Consumer Error: %v", err)
			}
		}()
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}

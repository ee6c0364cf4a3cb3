package main

import (
	"context"
	"log"

	"ai-recall-be/internal/bootstrap"
	"ai-recall-be/internal/config"
	"ai-recall-be/internal/server"
	"ai-recall-be/internal/tracer"
	"ai-recall-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Logger.Sync()

	// The evaluation consumer scores streamed context responses off the hot
	// path.
	go func() {
		log.Println("Background: Starting Evaluation Consumer...")
		if err := container.EvaluationService.Consume(context.Background()); err != nil {
			log.Printf("Background Evaluation Consumer Error: %v", err)
		}
	}()

	srv := server.New(cfg, container)

	log.Fatal(srv.Run())
}

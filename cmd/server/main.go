package main

import (
	"context"
	"net/http"
	"os"

	webAdapter "erp-backoffice/internal/adapters/web"
	"erp-backoffice/internal/app"
	"erp-backoffice/internal/core"
	"erp-backoffice/internal/db"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	catalog := core.NewCatalogService(pool)
	txns := core.NewTransactionService(pool)
	documents := core.NewItemizedDocumentService(pool)
	reports := core.NewReportingService(pool)
	payments := core.NewPaymentService(pool)
	inventory := core.NewInventoryService(pool)

	svc := app.NewAppService(catalog, txns, documents, reports, payments, inventory)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, log, allowedOrigins)

	log.WithField("port", port).Info("server starting")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}

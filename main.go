package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/compra-app/compra-go/api"
	"github.com/compra-app/compra-go/cache"
	"github.com/compra-app/compra-go/config"
	"github.com/compra-app/compra-go/email"
	"github.com/compra-app/compra-go/platform"
	"github.com/compra-app/compra-go/services"
	"github.com/compra-app/compra-go/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found -- config defaults will be used")
	}

	db, err := store.Open(store.Config{
		SQLitePath:    config.SQLitePath,
		TursoDatabase: config.TursoDatabase,
		TursoToken:    config.TursoToken,
	})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	if db.UseTurso {
		log.Println("Connected to Turso database")
	} else {
		log.Printf("Using local SQLite database at %s", config.SQLitePath)
	}

	cacheManager := cache.NewManager(config.ScriptCacheTTL)
	server := api.NewServer(db, cacheManager, platform.NewScriptTagClient())

	if config.DigestEnabled {
		client, err := email.NewClient()
		if err != nil {
			log.Printf("Analytics digests disabled: %v", err)
		} else {
			digest := services.NewDigestService(db, client)
			go digest.Run(context.Background(), config.DigestCheckInterval)
			log.Println("Analytics digest scheduler started")
		}
	}

	if !config.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(api.FilteredLogger(), gin.Recovery())
	r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	// The embed script runs on arbitrary storefront domains, so the public
	// endpoints must accept any origin.
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))

	server.RegisterRoutes(r)

	log.Printf("Starting server on :%s", config.Port)
	if err := r.Run(":" + config.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

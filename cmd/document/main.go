package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/collabwrite/collabwrite/internal/database"
	"github.com/collabwrite/collabwrite/internal/document/handler"
	"github.com/collabwrite/collabwrite/internal/document/service"
	"github.com/collabwrite/collabwrite/pkg/middleware"
)

// Standalone document service for local frontend development. It is
// unauthenticated: every request runs as a fixed dev identity. Do not deploy.
func main() {
	port := os.Getenv("DOC_SERVICE_PORT")
	if port == "" {
		port = "5010"
	}

	r := gin.New()
	r.Use(gin.Recovery())

	var svc service.Service
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI != "" {
		client, err := database.ConnectMongo(context.Background(), mongoURI, 10*time.Second)
		if err != nil {
			log.Printf("warning: cannot connect to MongoDB (%v), using memory-backed repo", err)
			svc = service.NewMemoryService()
		} else {
			col := client.Database(os.Getenv("MONGODB_DATABASE")).Collection("documents")
			svc = service.NewMongoService(col)
		}
	} else {
		svc = service.NewMemoryService()
	}

	devIdentity := func(c *gin.Context) {
		middleware.SetUser(c, middleware.Identity{ID: "dev", Name: "Dev User"})
		c.Next()
	}
	handler.RegisterDocumentRoutes(r, svc, nil, devIdentity)

	log.Printf("document service listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/collabwrite/collabwrite/handlers"
	"github.com/collabwrite/collabwrite/internal/assistant"
	"github.com/collabwrite/collabwrite/internal/chat"
	"github.com/collabwrite/collabwrite/internal/config"
	"github.com/collabwrite/collabwrite/internal/database"
	dochandler "github.com/collabwrite/collabwrite/internal/document/handler"
	"github.com/collabwrite/collabwrite/internal/document/repository"
	docservice "github.com/collabwrite/collabwrite/internal/document/service"
	"github.com/collabwrite/collabwrite/internal/oidc"
	"github.com/collabwrite/collabwrite/internal/sessions"
	"github.com/collabwrite/collabwrite/internal/storage"
	"github.com/collabwrite/collabwrite/internal/tokens"
	"github.com/collabwrite/collabwrite/internal/users"
	"github.com/collabwrite/collabwrite/pkg/logger"
	"github.com/collabwrite/collabwrite/pkg/metrics"
	"github.com/collabwrite/collabwrite/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if cfg.JWT.Secret == "" && cfg.Demo.Enabled {
		// demo mode only: a throwaway per-process secret so the service
		// can run without configuration; tokens do not survive restarts
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			logger.Fatalf("cannot generate demo secret: %v", err)
		}
		cfg.JWT.Secret = hex.EncodeToString(b)
		logger.Warn("DEMO_MODE: generated ephemeral JWT secret")
	}
	logger.Infof("config loaded: demo=%v mongo=%v redis=%v oidc=%v", cfg.Demo.Enabled, cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.OIDC.IssuerURL != "")

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple; production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Global middlewares: logging + recovery
	r.Use(gin.Logger(), gin.Recovery())

	// Connect to Redis early: sessions, document blob store, blacklist and
	// rate limiting all want it.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password})
		if err := redisClient.Ping(context.Background()).Err(); err == nil {
			sessions.SetBlacklistClient(redisClient)
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		} else {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// shared runtime vars used by readiness
	var userSvc *users.Service
	var sessionsSvc *sessions.Service
	var oidcVerifier middleware.Verifier

	// Basic health endpoint
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness endpoint: return 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		if sessionsSvc == nil {
			deps["sessions"] = false
			ready = false
		} else {
			deps["sessions"] = true
			deps["users"] = (userSvc != nil)
		}

		if cfg.OIDC.IssuerURL != "" {
			deps["oidc"] = oidcVerifier != nil
			if oidcVerifier == nil {
				ready = false
			}
		} else {
			// not configured -> consider OK
			deps["oidc"] = true
		}

		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil
			if redisClient == nil {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		status := http.StatusOK
		name := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			name = "not_ready"
		}
		c.JSON(status, gin.H{"status": name, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	// Optional OAuth-style provider for sign-in
	ctx := context.Background()
	if cfg.OIDC.IssuerURL != "" && cfg.OIDC.ClientID != "" {
		ver, err := oidc.NewVerifier(ctx, cfg.OIDC.IssuerURL, cfg.OIDC.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			oidcVerifier = ver
		}
	}

	// Prefer Redis-based sessions when available (fast, TTL for free)
	if redisClient != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "session:"))
		logger.Infof("Using Redis for session storage")
	}

	// MongoDB-backed services. Retry/backoff tolerates container startup races.
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
			mongoClient = nil
		} else {
			defer func() { _ = mongoClient.Disconnect(ctx) }()
			if sessionsSvc == nil {
				sessionsCol := mongoClient.Database(cfg.MongoDB.Database).Collection("sessions")
				sessionsSvc = sessions.NewService(sessions.NewMongoRepository(sessionsCol))
			}
		}
	}

	// User store: demo credential accounts when DEMO_MODE is set, otherwise
	// the Mongo-backed store (OIDC sign-ins only).
	if cfg.Demo.Enabled {
		userSvc = users.NewService(users.NewDemoRepository(users.DefaultDemoUsers()))
		logger.Warn("DEMO_MODE: demo credential users enabled")
	} else if mongoClient != nil {
		usersCol := mongoClient.Database(cfg.MongoDB.Database).Collection("users")
		userSvc = users.NewService(users.NewMongoUserRepository(usersCol))
	}

	// Document store: Mongo when available, then the Redis blob store
	// (single JSON key, original contract), memory as a last resort.
	var docSvc docservice.Service
	switch {
	case mongoClient != nil:
		docsCol := mongoClient.Database(cfg.MongoDB.Database).Collection("documents")
		docSvc = docservice.NewMongoService(docsCol)
		logger.Infof("Using MongoDB for document storage")
	case redisClient != nil:
		docSvc = docservice.NewService(repository.NewBlobRepo(redisClient, ""))
		logger.Infof("Using Redis blob for document storage")
	default:
		docSvc = docservice.NewMemoryService()
		logger.Warn("no MongoDB or Redis available, documents are in-memory only")
	}

	// Access-token verification for all protected routes
	accessVerifier := tokens.NewHSVerifier(cfg.JWT.Secret)
	authMW := middleware.AuthMiddleware(accessVerifier)

	// Register auth handlers if services are available
	if userSvc != nil && sessionsSvc != nil {
		h := handlers.NewAuthHandler(cfg, userSvc, sessionsSvc, oidcVerifier)
		h.Register(r.Group("/"))
	} else {
		logger.Warnf("auth handlers not registered because user/sessions services are unavailable")
	}

	handlers.RegisterSwagger(r)

	// Document export storage (optional)
	var exports *storage.ExportStore
	if mcfg := storage.LoadMinIOConfig(); mcfg.Endpoint != "" {
		exports, err = storage.NewExportStore(mcfg)
		if err != nil {
			logger.Warnf("export storage unavailable: %v", err)
			exports = nil
		}
	}

	dochandler.RegisterDocumentRoutes(r, docSvc, exports, authMW)

	// AI writing assistant; a missing provider degrades to the fallback payload
	gw, err := assistant.NewGateway(cfg.Assistant)
	if err != nil {
		logger.Warnf("assistant provider not configured: %v", err)
		gw = nil
	}
	assistant.RegisterAssistantRoutes(r, gw, authMW)

	// Editing sessions: autosave + simulated chat over websocket
	chat.RegisterChatRoutes(r, docSvc, cfg.Autosave.Debounce, chat.NewResponder(time.Second, 3*time.Second), authMW)

	api := r.Group("/api/v1")
	api.GET("/me", authMW, func(c *gin.Context) {
		if u, ok := middleware.UserFromContext(c); ok {
			c.JSON(http.StatusOK, gin.H{"user": u})
			return
		}
		claims, _ := c.Get("claims")
		c.JSON(http.StatusOK, gin.H{"claims": claims})
	})

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting collabwrite service on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

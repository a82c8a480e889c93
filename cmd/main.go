package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace-server/config"
	_ "marketplace-server/docs"
	"marketplace-server/internal/handler"
	"marketplace-server/internal/repository"
	"marketplace-server/internal/security"
	"marketplace-server/internal/service"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Marketplace-server
// @version 1.0
// @description REST API B2B-маркетплейса: учётные записи компаний, сессии, каталог товаров, подборки, доска ISO-заявок и шортлисты

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	cacheTTL := time.Duration(cfg.TTL.S3AndRedis) * time.Second

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	shareRepo := repository.NewShareRepository(db)
	isoRepo := repository.NewISORepository(db)
	shortlistRepo := repository.NewShortlistRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, cacheTTL)

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания S3 сервиса: %v", err)
	}

	jwtService := security.NewJWTService(&cfg.JWT)
	authService := service.NewAuthenticationService(userRepo, jwtService, cfg)
	userService := service.NewUserService(userRepo)
	productService := service.NewProductService(productRepo, cacheRepo, s3Service, cacheTTL)
	shareService := service.NewShareService(shareRepo, productRepo, cacheRepo, s3Service, &cfg.CRM, cacheTTL)
	isoService := service.NewISOService(isoRepo, productRepo)
	shortlistService := service.NewShortlistService(shortlistRepo, productRepo, s3Service, cacheTTL)

	authHandler := handler.NewAuthenticationHandler(authService, jwtService)
	userHandler := handler.NewUserHandler(userService)
	productHandler := handler.NewProductHandler(productService)
	shareHandler := handler.NewShareHandler(shareService)
	isoHandler := handler.NewISOHandler(isoService)
	shortlistHandler := handler.NewShortlistHandler(shortlistService)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	router.Use(corsMiddleware.Handler)
	router.Use(config.DBMiddleware(db))
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupAuthRoutes(router, authHandler, jwtService, cfg)
	setupUserRoutes(router, userHandler, jwtService, cfg)
	setupProductRoutes(router, productHandler, jwtService, cfg)
	setupShareRoutes(router, shareHandler, jwtService, cfg)
	setupISORoutes(router, isoHandler, jwtService, cfg)
	setupShortlistRoutes(router, shortlistHandler, jwtService, cfg)

	runServer(ctx, srv)
}

func setupAuthRoutes(r chi.Router, h *handler.AuthenticationHandler, jwtService *security.JWTService, cfg *config.AppConfig) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware(jwtService, cfg.Admin.AdminToken))
			r.Get("/me", h.GetCurrentUser)
			r.Head("/me", h.GetCurrentUserHead)
		})
		r.Group(func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/refresh", h.RefreshToken)
			r.Post("/logout", h.Logout)
		})
	})
}

func setupUserRoutes(r chi.Router, h *handler.UserHandler, jwtService *security.JWTService, cfg *config.AppConfig) {
	r.Route("/api/users", func(r chi.Router) {
		r.Use(security.JWTMiddleware(jwtService, cfg.Admin.AdminToken))

		r.Get("/", h.ListUsers)
		r.Head("/", h.ListUsers)

		r.Route("/{uuid}", func(r chi.Router) {
			r.Get("/", h.GetUser)
			r.Head("/", h.GetUserHead)
			r.Put("/", h.UpdateUser)
			r.Put("/password", h.UpdatePassword)
			r.Delete("/", h.DeleteUser)
		})
	})
}

func setupProductRoutes(r chi.Router, h *handler.ProductHandler, jwtService *security.JWTService, cfg *config.AppConfig) {
	r.Route("/api/products", func(r chi.Router) {
		r.Use(security.JWTMiddleware(jwtService, cfg.Admin.AdminToken))
		r.Get("/", h.ListProducts)
		r.Head("/", h.ListProductsHead)
		r.Post("/", h.CreateProduct)

		r.Route("/{uuid}", func(r chi.Router) {
			r.Get("/", h.GetProduct)
			r.Head("/", h.GetProductHead)
			r.Put("/", h.UpdateProduct)
			r.Delete("/", h.DeleteProduct)
		})
	})
}

func setupShareRoutes(r chi.Router, h *handler.ShareHandler, jwtService *security.JWTService, cfg *config.AppConfig) {
	r.Route("/api/shares", func(r chi.Router) {
		r.Use(security.JWTMiddleware(jwtService, cfg.Admin.AdminToken))
		r.Get("/", h.ListShares)
		r.Post("/", h.CreateShare)
		r.Delete("/{uuid}", h.RevokeShare)
	})

	r.Route("/public/shares", func(r chi.Router) {
		r.Get("/{token}", h.GetPublicShare)
		r.Head("/{token}", h.GetPublicShareHead)
	})
}

func setupISORoutes(r chi.Router, h *handler.ISOHandler, jwtService *security.JWTService, cfg *config.AppConfig) {
	r.Route("/api/iso", func(r chi.Router) {
		r.Use(security.JWTMiddleware(jwtService, cfg.Admin.AdminToken))
		r.Get("/", h.ListISOs)
		r.Post("/", h.CreateISO)

		r.Route("/{uuid}", func(r chi.Router) {
			r.Get("/", h.GetISO)
			r.Get("/matches", h.MatchProducts)
			r.Post("/close", h.CloseISO)
			r.Delete("/", h.DeleteISO)
		})
	})
}

func setupShortlistRoutes(r chi.Router, h *handler.ShortlistHandler, jwtService *security.JWTService, cfg *config.AppConfig) {
	r.Route("/api/shortlist", func(r chi.Router) {
		r.Use(security.JWTMiddleware(jwtService, cfg.Admin.AdminToken))
		r.Get("/", h.ListShortlist)
		r.Post("/", h.AddToShortlist)
		r.Delete("/{uuid}", h.RemoveFromShortlist)
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}

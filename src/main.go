package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"regexp"
	"strconv"
	"syscall"
	"time"

	"exobooking/src/boot"
	"exobooking/src/catalog"
	"exobooking/src/config"
	"exobooking/src/controllers"
	"exobooking/src/middlewares"
	"exobooking/src/reconcile"
	"exobooking/src/reservations"
	"exobooking/src/utils"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

const apiPrefix = "/api/v1"

var civilDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	_, ok := utils.NormalizeDate(fl.Field().Interface())
	return ok
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("civildate", civilDateValidatorFunc)
	}
}

func setupRouter() *gin.Engine {
	registerValidators()
	router := gin.Default()
	router.Use(middlewares.SecureHeaders, middlewares.RequestID)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		mm, _ := strconv.ParseBool(os.Getenv("MAINTENANCE_MODE"))
		if mm {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, err.Error())
			return
		}
	})
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	if cfg.Env == "local" {
		return cors.Default()
	}
	cc := cors.DefaultConfig()
	cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PUT", "HEAD")
	cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization", middlewares.REQUEST_ID_HEADER)
	cc.ExposeHeaders = append(cc.ExposeHeaders, middlewares.REQUEST_ID_HEADER)
	appHost := regexp.QuoteMeta(cfg.Host)
	cc.AllowOriginFunc = func(origin string) bool {
		match, _ := regexp.MatchString(appHost+`(:\d+)?$`, origin)
		return match
	}
	cc.AllowCredentials = true
	cc.AllowAllOrigins = false
	return cors.New(cc)
}

// setupRoutes mounts the public booking routes and the operator routes.
func setupRoutes(router *gin.Engine, s *controllers.Services, jwtSecret []byte) {
	apiv1 := apiv1Group(router)
	reservationHandlers(apiv1, s)
	availabilityHandlers(apiv1, s)
	tourHandlers(apiv1, s)

	admin := apiv1.Group("/admin")
	admin.Use(middlewares.AdminAuth(jwtSecret))
	adminReservationHandlers(admin, s)
	inventoryHandlers(admin, s)
	adminTourHandlers(admin, s)
}

func initLogger(dir string) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("Error creating log directory %s: %s\n", dir, err.Error())
		return
	}
	apiLog := &lumberjack.Logger{
		Filename:   path.Join(dir, "api.log"),
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	}
	gin.DefaultWriter = io.MultiWriter(apiLog, os.Stdout)
	log.SetOutput(io.MultiWriter(&lumberjack.Logger{
		Filename:   path.Join(dir, "server.log"),
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	}, os.Stderr))
}

func main() {
	if os.Getenv("API_ENV") == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			log.Printf("No .env loaded: %s\n", err.Error())
		}
	}
	cfg := config.Load()
	initLogger(cfg.LogDir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := boot.InitDb(cfg)
	tours := catalog.New(db)
	ledger := boot.InitLedger(cfg, db)
	repo := reservations.NewGormRepository(db)
	events, closeEvents := boot.InitPublisher(cfg)
	defer closeEvents()

	services := &controllers.Services{
		Catalog:      tours,
		Ledger:       ledger,
		Reservations: reservations.NewService(tours, ledger, repo, events).WithPageSize(cfg.PageSize),
		Reconciler:   reconcile.New(tours, ledger, repo),
	}
	boot.InitScheduler(services.Reconciler, cfg.ReconcileInterval)
	defer boot.StopScheduler()

	if cfg.MaintenanceMode {
		log.Println("Starting in maintenance mode")
	}
	if cfg.JWTSecret == "" {
		log.Println("JWT_SECRET is empty; admin routes will reject every request")
	}

	router := setupRouter()
	router.Use(corsMiddleware(cfg))
	router = maintenanceModeMiddleware(router)
	setupRoutes(router, services, []byte(cfg.JWTSecret))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
	}
	go func() {
		log.Printf("Listening on %s\n", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %s", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %s\n", err.Error())
	}
}

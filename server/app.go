package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cesizen/config"
	"cesizen/internal/auth"
	"cesizen/internal/breathing"
	"cesizen/internal/content"
	"cesizen/internal/db"
	"cesizen/internal/health"
	"cesizen/internal/logs"
	"cesizen/internal/middleware"
	"cesizen/internal/models"
	"cesizen/internal/repo"
	"cesizen/internal/seed"
	"cesizen/internal/users"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type App struct {
	cfg        *config.Config
	db         *gorm.DB
	Router     *mux.Router
	httpServer *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg

	/* 1) Логи */
	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	/* 2) Часовой пояс процесса */
	if loc, err := time.LoadLocation(a.cfg.Server.Timezone); err == nil {
		time.Local = loc
	}

	/* 3) Issuer токенов — конфиг уже проверен, но ошибка здесь фатальна */
	issuer, err := auth.NewIssuer(a.cfg.Auth.JWTSecret, a.cfg.AccessTTL(), a.cfg.RefreshTTL())
	if err != nil {
		log.Fatalf("auth issuer init failed: %v", err)
	}

	/* 4) DB (опционально; без driver — in-memory, только auth-поток) */
	if drv := a.cfg.Database.Driver; drv != "" {
		d, err := db.Open(drv, a.cfg.Database.DSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		a.db = d

		if err := a.db.AutoMigrate(
			&models.Role{},
			&models.User{},
			&models.ContentCategory{},
			&models.Content{},
			&models.BreathingExerciseType{},
			&models.BreathingExerciseConfiguration{},
		); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
	}

	/* 5) Router + middleware */
	a.Router = mux.NewRouter().StrictSlash(true)
	a.Router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
	)

	/* 6) Health */
	if a.db != nil {
		health.RegisterRoutesWithDB(a.Router, a.db) // /healthz, /readyz
	} else {
		health.RegisterRoutes(a.Router)
	}

	/* 7) Хранилища и маршруты */
	if a.db != nil {
		userStore := repo.NewUserStore(a.db)
		roleStore := repo.NewRoleStore(a.db)
		typeStore := repo.NewBreathingTypeStore(a.db)
		configStore := repo.NewBreathingConfigStore(a.db)
		contentStore := repo.NewContentStore(a.db)
		categoryStore := repo.NewCategoryStore(a.db)

		if err := seed.Run(context.Background(), userStore, roleStore, typeStore, seed.AdminDefaults{
			Username: a.cfg.Admin.Username,
			Email:    a.cfg.Admin.Email,
			Password: a.cfg.Admin.Password,
		}); err != nil {
			log.Fatalf("seed failed: %v", err)
		}

		gate := auth.Authenticate(issuer)
		optional := auth.AuthenticateOptional(issuer)
		adminOnly := auth.Authorize(userStore, roleStore, models.RoleAdmin)

		auth.RegisterRoutes(a.Router, auth.NewHandler(userStore, roleStore, issuer))
		users.RegisterRoutes(a.Router, users.NewHandler(userStore), gate, adminOnly)
		content.RegisterRoutes(a.Router, content.NewHandler(contentStore, categoryStore), gate, adminOnly)
		breathing.RegisterRoutes(a.Router, breathing.NewHandler(typeStore, configStore), gate, optional, adminOnly)
	} else {
		// без БД: пользователи и роли в памяти, контент недоступен
		mem := repo.NewMemoryStore()
		roles := mem.Roles()
		if adminRole, err := roles.FindByName(context.Background(), models.RoleAdmin); err == nil {
			_, _ = mem.Create(context.Background(), repo.CreateUserInput{
				UserName: a.cfg.Admin.Username,
				Email:    a.cfg.Admin.Email,
				Password: a.cfg.Admin.Password,
				RoleID:   adminRole.ID,
			})
		}

		gate := auth.Authenticate(issuer)
		adminOnly := auth.Authorize(mem, roles, models.RoleAdmin)

		auth.RegisterRoutes(a.Router, auth.NewHandler(mem, roles, issuer))
		users.RegisterRoutes(a.Router, users.NewHandler(mem), gate, adminOnly)
	}

	/* (необязательно) вывести известные маршруты в лог при старте */
	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		logs.Logger.Debugf("route: %-6v %s", methods, path)
		return nil
	})
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return fmt.Errorf("server not initialized")
	}

	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		logs.Logger.Infof("shutdown signal: %s", s)
		a.cancel()
	}()

	// Жёсткие таймауты — это важно для production
	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logs.Logger.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Logger.Fatalf("http server error: %v", err)
		}
	}()

	<-a.ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("http shutdown: %v", err)
	}
	return nil
}

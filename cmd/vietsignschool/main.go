package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/auth"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/authz"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/orgrole"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/permission"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/config"
	infraauth "github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/infrastructure/auth"
	httprouter "github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/infrastructure/http"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/infrastructure/http/handlers"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/infrastructure/http/middleware"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/infrastructure/persistence/postgres"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/infrastructure/queue"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/infrastructure/security"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping database")
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	healthHandler := handlers.NewHealthHandler(pool, redisClient)

	userRepo := postgres.NewUserRepository(pool)
	orgRepo := postgres.NewOrganizationRepository(pool)
	membershipRepo := postgres.NewMembershipRepository(pool)
	permRepo := postgres.NewPermissionRepository(pool)
	tokenStore := postgres.NewTokenStore(pool)

	var taskEnqueuer ports.TaskEnqueuer
	var asynqWorker *queue.Worker
	if redisClient != nil {
		redisOpt, _ := redis.ParseURL(cfg.Redis.URL)
		asynqOpt := asynq.RedisClientOpt{Addr: redisOpt.Addr, Password: redisOpt.Password, DB: redisOpt.DB}
		asynqEnq, err := queue.NewAsynqEnqueuer(asynqOpt, log)
		if err != nil {
			log.Fatal().Err(err).Msg("create asynq enqueuer")
		}
		defer asynqEnq.Close()
		taskEnqueuer = asynqEnq
		asynqWorker = queue.NewWorker(asynqOpt, log)
		go func() {
			if err := asynqWorker.Run(); err != nil {
				log.Warn().Err(err).Msg("asynq worker stopped")
			}
		}()
	} else {
		taskEnqueuer = queue.NewNoopEnqueuer()
	}

	hasher := security.NewArgon2Hasher(security.Argon2Params{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  16,
		KeyLength:   32,
	})

	pemBytes, err := cfg.LoadJWTPrivateKey()
	if err != nil {
		log.Fatal().Err(err).Msg("load JWT private key")
	}
	privateKey, err := infraauth.LoadRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("parse JWT private key")
	}
	issuer := infraauth.NewTokenIssuer(privateKey, cfg.JWT.Issuer, cfg.JWT.Audience)

	tree := authz.NewTreeResolver(orgRepo)
	scope := authz.NewScopeChecker(membershipRepo, tree)
	checker := authz.NewPermissionChecker(userRepo, permRepo)

	registerUC := auth.NewRegisterUser(userRepo, hasher)
	loginUC := auth.NewLogin(userRepo, hasher, issuer, tokenStore, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)
	refreshUC := auth.NewRefresh(userRepo, issuer, tokenStore, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)
	logoutUC := auth.NewLogout(tokenStore)

	assignRoleUC := orgrole.NewAssignRole(membershipRepo, taskEnqueuer)
	removeRoleUC := orgrole.NewRemoveRole(membershipRepo, taskEnqueuer)
	setPrimaryUC := orgrole.NewSetPrimary(membershipRepo)
	setOverrideUC := permission.NewSetOverride(checker, permRepo, taskEnqueuer)
	removeOverrideUC := permission.NewRemoveOverride(checker, permRepo, taskEnqueuer)

	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.RatePerIP)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	userLimit, err := middleware.NewUserRateLimiter(cfg.RateLimit.RatePerUser)
	if err != nil {
		log.Fatal().Err(err).Msg("create user rate limiter")
	}
	secureMiddleware := middleware.NewSecure(middleware.SecureOptions(cfg.Secure.IsDevelopment))

	authHandler := handlers.NewAuthHandler(registerUC, loginUC, refreshUC, logoutUC, log)
	usersHandler := handlers.NewUsersHandler(userRepo, membershipRepo, checker)
	orgsHandler := handlers.NewOrganizationsHandler(orgRepo, membershipRepo, scope, assignRoleUC, removeRoleUC, setPrimaryUC)
	permsHandler := handlers.NewPermissionsHandler(permRepo, checker, setOverrideUC, removeOverrideUC)
	requireJWT := middleware.NewAuthValidator(issuer).Handler

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:          authHandler,
		HealthHandler:        healthHandler,
		UsersHandler:         usersHandler,
		OrganizationsHandler: orgsHandler,
		PermissionsHandler:   permsHandler,
		RequireJWT:           requireJWT,
		OrgScope:             middleware.OrgScope(scope),
		Log:                  log,
		Secure:               secureMiddleware,
		IPRateLimit:          ipLimit,
		UserRateLimit:        userLimit,
		Metrics:              true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if asynqWorker != nil {
		asynqWorker.Shutdown()
	}
	log.Info().Msg("server stopped")
}

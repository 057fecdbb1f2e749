package bootstrap

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/asidlare/todos/adapter/out/cache"
	"github.com/asidlare/todos/adapter/out/persistence"
	"github.com/asidlare/todos/config"
	"github.com/asidlare/todos/core/port/in"
	"github.com/asidlare/todos/core/port/out"
	"github.com/asidlare/todos/core/service/access"
	"github.com/asidlare/todos/core/service/auth"
	"github.com/asidlare/todos/core/service/task"
	"github.com/asidlare/todos/core/service/todolist"
	"github.com/asidlare/todos/infra/database"
	"github.com/asidlare/todos/pkg/logger"
)

type Dependencies struct {
	Config *config.Config
	DB     *pgxpool.Pool
	SQLDB  *sqlx.DB
	Redis  *redis.Client

	// Repositories
	UserRepo     out.UserRepository
	TodoListRepo out.TodoListRepository
	TaskRepo     out.TaskRepository
	RoleRepo     out.RoleRepository

	// Cache
	RoleCache      out.RoleCache
	TokenBlacklist out.TokenBlacklist

	// Services
	Resolver        *access.Resolver
	AuthService     in.AuthService
	TodoListService in.TodoListService
	TaskService     in.TaskService
}

func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// Database (pgxpool for health checks and pool stats)
	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	deps.DB = db
	cleanups = append(cleanups, func() { db.Close() })

	// Database (sqlx for the adapters)
	sqlDB, err := database.NewSQLx(cfg.DatabaseURL)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	deps.SQLDB = sqlDB
	cleanups = append(cleanups, func() { sqlDB.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, sqlDB); err != nil {
		cleanup()
		return nil, nil, err
	}

	// Redis (optional; role cache and token blacklist degrade without it)
	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn("Redis connection failed, running without role cache and token blacklist: %v", err)
	} else {
		deps.Redis = redisClient
		cleanups = append(cleanups, func() { redisClient.Close() })

		deps.RoleCache = cache.NewRoleCache(redisClient)
		deps.TokenBlacklist = cache.NewTokenBlacklist(redisClient)
	}

	// Repositories
	deps.UserRepo = persistence.NewUserRepository(sqlDB)
	deps.TodoListRepo = persistence.NewTodoListRepository(sqlDB)
	deps.TaskRepo = persistence.NewTaskRepository(sqlDB)
	deps.RoleRepo = persistence.NewRoleRepository(sqlDB)

	// Services
	deps.Resolver = access.NewResolver(deps.TodoListRepo, deps.RoleRepo, deps.RoleCache)
	deps.AuthService = auth.NewService(deps.UserRepo, deps.TokenBlacklist, []byte(cfg.JWTSecret), cfg.TokenTTL)
	deps.TodoListService = todolist.NewService(deps.TodoListRepo, deps.UserRepo, deps.RoleRepo, deps.Resolver)
	deps.TaskService = task.NewService(deps.TaskRepo, deps.Resolver)

	logger.Info("Dependencies initialized")

	return deps, cleanup, nil
}

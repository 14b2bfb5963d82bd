package api

import (
	"context"
	"fmt"

	"admin/internal/app/apiclient"
	"admin/internal/app/asset"
	"admin/internal/app/config"
	"admin/internal/app/console"
	"admin/internal/app/form"
	"admin/internal/app/handler"
	"admin/internal/app/session"
	"admin/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// StartServer wires the console from the configuration and serves it until
// ctx is done.
func StartServer(ctx context.Context) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logrus.SetLevel(cfg.LogLevel())

	store, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sess := session.New()
	client := apiclient.New(apiclient.Options{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		RetryCount: cfg.API.RetryCount,
		Tokens:     sess,
	})

	sessions := session.NewManager(sess, client, store)
	if user, err := sessions.Restore(ctx); err == nil {
		logrus.WithField("email", user.Email).Info("admin session restored")
	}

	c := console.New(client, form.Assets{
		Encoder: asset.NewEncoder(cfg.Assets.MaxBytes),
		Origin:  cfg.API.AssetOrigin,
	})

	h := handler.NewHandler(c, sessions)
	h.AllowOrigins = cfg.AllowOrigins
	h.AdminRoles = cfg.Session.Roles

	return pkg.NewApp(cfg, gin.New(), h).RunApp(ctx)
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	if cfg.Session.Backend != config.SessionBackendRedis {
		return session.NewMemoryStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr(),
		Username:    cfg.Redis.User,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
		ReadTimeout: cfg.Redis.ReadTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr(), err)
	}

	logrus.WithField("addr", cfg.RedisAddr()).Info("session store: redis")
	return session.NewRedisStore(client, cfg.Session.Key), func() { _ = client.Close() }, nil
}

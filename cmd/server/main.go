package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"warden/internal/api"
	"warden/internal/auth"
	"warden/internal/config"
	"warden/internal/metrics"
	"warden/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	root := &cobra.Command{
		Use:           "warden",
		Short:         "账户、角色与权限管理服务",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		logrus.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

// loadConfig 解析环境变量并初始化全局日志。
func loadConfig() (config.Config, error) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	cfg, err := config.ParseConfig()
	if err != nil {
		return config.Config{}, err
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithField("log_level", cfg.LogLevel).Warn("unknown log level, falling back to info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	return cfg, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "迁移数据库表结构",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			repo, err := model.InitRepository(&cfg)
			if err != nil {
				return fmt.Errorf("init repository: %w", err)
			}
			defer closeRepository(repo.DB())
			logrus.WithField("db_type", cfg.DBType).Info("schema migrated")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "初始化内置权限和超级管理员",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			repo, err := model.InitRepository(&cfg)
			if err != nil {
				return fmt.Errorf("init repository: %w", err)
			}
			defer closeRepository(repo.DB())

			result, err := model.SeedSuperAdmin(cmd.Context(), repo, cfg)
			if err != nil {
				return fmt.Errorf("seed super admin: %w", err)
			}
			logrus.WithFields(logrus.Fields{
				"permissions":     result.Permissions,
				"role_created":    result.RoleCreated,
				"account_created": result.AccountCreated,
				"links":           result.RolePermissionLinks,
			}).Info("seed finished")
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer closeRepository(repo.DB())

	if _, err := model.SeedSuperAdmin(ctx, repo, cfg); err != nil {
		return fmt.Errorf("seed super admin: %w", err)
	}

	sessions, err := auth.NewSessionStore(&cfg, time.Duration(cfg.JWTExpirationMinutes)*time.Minute)
	if err != nil {
		return fmt.Errorf("init session store: %w", err)
	}

	var (
		registry *prometheus.Registry
		m        *metrics.Metrics
	)
	if cfg.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(registry)
	}

	httpHandler, err := api.NewHTTPHandler(cfg, repo, sessions, m)
	if err != nil {
		return fmt.Errorf("init http handler: %w", err)
	}

	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// 添加中间件
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())
	r.Use(m.GinMiddleware())

	if registry != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(registry)))
	}
	httpHandler.RegisterRoutes(r)

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.WithField("host", serverHost).Info("服务器启动")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logrus.Info("服务器关闭中")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

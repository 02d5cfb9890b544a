package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/agrikit/config"
	"github.com/rushteam/agrikit/core"
	"github.com/rushteam/agrikit/feature"
	"github.com/rushteam/agrikit/model"
	"github.com/rushteam/agrikit/pipeline"
	"github.com/rushteam/agrikit/rules"
	"github.com/rushteam/agrikit/service"
	"github.com/rushteam/agrikit/store"
)

// ServerConfig 是服务进程的顶层配置。
type ServerConfig struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	// Artifacts 指向训练产物目录；为空表示不启用工件模型。
	Artifacts struct {
		Dir string `yaml:"dir"`
	} `yaml:"artifacts"`

	// Rules 可选的规则表覆盖文件；为空使用内置表。
	Rules struct {
		Table string `yaml:"table"`
	} `yaml:"rules"`

	Feast struct {
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
		Project string `yaml:"project"`
	} `yaml:"feast"`

	Cache struct {
		Kind string `yaml:"kind"` // memory / redis / 空（不缓存）
		Addr string `yaml:"addr"`
		DB   int    `yaml:"db"`
		TTL  int    `yaml:"ttl"` // 秒
	} `yaml:"cache"`

	Pipeline struct {
		Config string `yaml:"config"`
	} `yaml:"pipeline"`
}

func loadConfig(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg ServerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Pipeline.Config == "" {
		return nil, fmt.Errorf("pipeline.config is required")
	}
	return &cfg, nil
}

func main() {
	configPath := flag.String("config", "configs/server.yaml", "服务配置文件路径")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	rt := &config.Runtime{}

	// 工件加载失败必须拒绝启动，不能带着缺失的模型对外服务
	if cfg.Artifacts.Dir != "" {
		bundle, err := model.LoadBundle(cfg.Artifacts.Dir)
		if err != nil {
			logger.Fatal("load model bundle",
				zap.String("dir", cfg.Artifacts.Dir), zap.Error(err))
		}
		rt.Bundle = bundle
		logger.Info("model bundle loaded",
			zap.String("dir", cfg.Artifacts.Dir),
			zap.Int("classes", bundle.Target.Len()))
	}

	if cfg.Rules.Table != "" {
		table, err := rules.LoadTable(cfg.Rules.Table)
		if err != nil {
			logger.Fatal("load rules table",
				zap.String("path", cfg.Rules.Table), zap.Error(err))
		}
		rt.Rules = table
	}

	if cfg.Feast.Host != "" {
		provider, err := feature.NewFeastProvider(cfg.Feast.Host, cfg.Feast.Port, cfg.Feast.Project)
		if err != nil {
			logger.Fatal("connect feast", zap.String("host", cfg.Feast.Host), zap.Error(err))
		}
		defer provider.Close()
		rt.Features = provider
	}

	config.RegisterBuiltins(rt)

	pipeCfg, err := pipeline.LoadFromYAML(cfg.Pipeline.Config)
	if err != nil {
		logger.Fatal("load pipeline config",
			zap.String("path", cfg.Pipeline.Config), zap.Error(err))
	}
	if err := config.ValidatePipelineConfig(pipeCfg); err != nil {
		logger.Fatal("validate pipeline config", zap.Error(err))
	}
	p, err := pipeCfg.BuildPipeline(config.DefaultFactory())
	if err != nil {
		logger.Fatal("build pipeline", zap.Error(err))
	}

	srv := service.NewServer(p, logger)

	var cache core.KeyValueStore
	switch cfg.Cache.Kind {
	case "memory":
		cache = store.NewMemoryStore()
	case "redis":
		cache, err = store.NewRedisStore(cfg.Cache.Addr, cfg.Cache.DB)
		if err != nil {
			logger.Fatal("connect redis", zap.String("addr", cfg.Cache.Addr), zap.Error(err))
		}
	case "":
	default:
		logger.Fatal("unknown cache kind", zap.String("kind", cfg.Cache.Kind))
	}
	if cache != nil {
		defer cache.Close()
		srv.Cache = cache
		srv.CacheTTL = cfg.Cache.TTL
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("serving", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

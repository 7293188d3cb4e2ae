package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sshcollectorpro/cliparser/addone/parser"
	"github.com/sshcollectorpro/cliparser/api/router"
	"github.com/sshcollectorpro/cliparser/internal/config"
	"github.com/sshcollectorpro/cliparser/internal/database"
	"github.com/sshcollectorpro/cliparser/internal/engine"
	"github.com/sshcollectorpro/cliparser/internal/repository"
	"github.com/sshcollectorpro/cliparser/internal/service"
	"github.com/sshcollectorpro/cliparser/pkg/logger"
)

const defaultConfigPath = "configs/config.yaml"

func logConfig(cfg *config.Config) logger.Config {
	return logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}
}

func main() {
	configPath := os.Getenv("CLI_PARSER_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logConfig(cfg)); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Infof("Starting CLI Parser Server version=%s", router.Version)

	if cfg.Database.SQLite.HistoryEnabled {
		if err := database.InitSQLite(cfg.Database.SQLite); err != nil {
			logger.Fatalf("Failed to initialize database: %v", err)
		}
		defer database.Close()
	}

	// 解析器链：编译注册的例程优先，其次源码定义仓库
	resolvers := []engine.Resolver{parser.Default}
	var repo *repository.Repository
	if dir := strings.TrimSpace(cfg.Engine.DefinitionsDir); dir != "" {
		repo = repository.New(nil, repository.Options{
			Root:     dir,
			Prefixes: cfg.Engine.DefinitionPrefixes,
			Verbs:    cfg.Engine.CommandVerbs,
		})
		resolvers = append(resolvers, repo)
	}
	eng := engine.New(engine.Options{
		DefaultPlatform:   cfg.Engine.DefaultPlatform,
		NormalizeEncoding: cfg.Engine.NormalizeEncoding,
		DebugOutputLines:  cfg.Engine.DebugOutputLines,
	}, resolvers...)
	logger.Infof("Parser engine ready: default_platform=%s registered_platforms=%v definitions_dir=%q",
		eng.DefaultPlatform(), parser.Default.Platforms(), cfg.Engine.DefinitionsDir)

	var writer service.StorageWriter = service.NewStorageWriter(cfg.Storage)
	parseService := service.NewParseService(eng, parser.Default, repo, writer, service.Options{
		History:          cfg.Database.SQLite.HistoryEnabled,
		BatchConcurrency: cfg.Engine.BatchConcurrency,
		SSH:              cfg.SSH,
	})

	r := router.SetupRouter(parseService, cfg.Server.Mode)

	server := &http.Server{
		Addr:           cfg.GetServerAddr(),
		Handler:        r,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Infof("Server starting addr=%s mode=%s", server.Addr, cfg.Server.Mode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan struct{})
	go watchConfig(configPath, cfg, stop)
	if repo != nil {
		go watchDefinitions(repo.Root(), eng, stop)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	close(stop)

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
	logger.Info("Server exited")
}

// watchConfig 配置文件变更时重新加载，仅日志配置即时生效
func watchConfig(path string, cfg *config.Config, stop <-chan struct{}) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warnf("Config watch init failed: %v", err)
		return
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		logger.Warnf("Config watch add failed: %v", err)
		return
	}

	trigger := func() {
		newCfg, err := config.Load(path)
		if err != nil {
			logger.Warnf("Config reload failed: %v", err)
			return
		}
		if err := logger.SetLevel(newCfg.Log.Level); err != nil {
			logger.Warnf("Config reload: %v", err)
		}
		if newCfg.Engine.DefinitionsDir != cfg.Engine.DefinitionsDir || newCfg.Engine.DefaultPlatform != cfg.Engine.DefaultPlatform {
			logger.Warn("Config reload: engine settings changed, restart required")
		}
		cfg.Log = newCfg.Log
		logger.Infof("Config reloaded: log level=%s", newCfg.Log.Level)
	}
	debounceLoop(watcher, stop, trigger, "Config")
}

// watchDefinitions 定义文件变化时清空例程缓存，下次请求重新定位
func watchDefinitions(root string, eng *engine.Engine, stop <-chan struct{}) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warnf("Definitions watch init failed: %v", err)
		return
	}
	defer watcher.Close()

	entries, err := os.ReadDir(root)
	if err != nil {
		logger.Warnf("Definitions watch skipped: %v", err)
		return
	}
	if err := watcher.Add(root); err != nil {
		logger.Warnf("Definitions watch add %s failed: %v", root, err)
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := watcher.Add(filepath.Join(root, e.Name())); err != nil {
				logger.Warnf("Definitions watch add %s failed: %v", e.Name(), err)
			}
		}
	}

	trigger := func() {
		n := eng.Cache().Clear()
		logger.Infof("Definitions changed: cleared %d cached routines", n)
	}
	debounceLoop(watcher, stop, trigger, "Definitions")
}

func debounceLoop(watcher *fsnotify.Watcher, stop <-chan struct{}, trigger func(), name string) {
	var debounce *time.Timer
	for {
		select {
		case <-stop:
			if debounce != nil {
				debounce.Stop()
			}
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(300*time.Millisecond, trigger)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("%s watch error: %v", name, err)
		}
	}
}

// Command docsite serves a markdown directory as a documentation site.
//
// Usage:
//
//	docsite -docs ./docs -addr :8080 -base /docs
//	docsite -config docsite.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	docsite "github.com/goliatone/go-docsite"
	"gopkg.in/yaml.v3"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML configuration file")
		docsDir    = flag.String("docs", "", "directory holding the markdown tree")
		addr       = flag.String("addr", ":8080", "listen address")
		basePath   = flag.String("base", "/", "path prefix the site is mounted under")
		watch      = flag.Bool("watch", false, "rebuild the tree when files change")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *docsDir != "" {
		cfg.DocsDir = *docsDir
	}
	if *basePath != "/" || cfg.BasePath == "" {
		cfg.BasePath = *basePath
	}
	if *watch {
		cfg.Watch.Enabled = true
		cfg.AutoRefresh = true
	}

	module, err := docsite.New(cfg)
	if err != nil {
		log.Fatalf("initialise docsite: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := module.Start(ctx); err != nil {
		log.Fatalf("start watcher: %v", err)
	}
	defer module.Stop()

	mux := http.NewServeMux()
	mount := strings.TrimSuffix(cfg.BasePath, "/")
	if mount == "" {
		mux.Handle("/", module.Router())
	} else {
		mux.Handle(mount+"/", http.StripPrefix(mount, module.Router()))
		mux.Handle(mount, http.RedirectHandler(mount+"/", http.StatusMovedPermanently))
	}

	server := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("serving %s at %s%s", cfg.DocsDir, *addr, cfg.BasePath)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}
}

func loadConfig(path string) (docsite.Config, error) {
	cfg := docsite.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

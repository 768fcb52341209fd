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

	"golang.org/x/sync/errgroup"

	"github.com/gekko3d/sceneedit"
	"github.com/gekko3d/sceneedit/remote"
)

func main() {
	configPath := flag.String("config", "sceneedit.yaml", "config file (.yaml, .yml or .toml)")
	addr := flag.String("addr", "", "listen address, overrides editor.listen")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if err := run(*configPath, *addr, *debug, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "sceneedit:", err)
		os.Exit(1)
	}
}

func run(configPath, addr string, debug bool, imports []string) error {
	cfg, err := sceneedit.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if debug {
		cfg.Log.Debug = true
	}
	if addr != "" {
		cfg.Editor.Listen = addr
	}

	logger, err := sceneedit.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := remote.NewServer(logger.Zap().Named("remote"))
	app := sceneedit.NewAppBuilder().
		UseStoreOptions(cfg.StoreOptions(logger.Zap().Named("store"))...).
		UseFrameRate(cfg.Editor.FrameRate).
		UseModule(
			sceneedit.LoggingModule{Logger: logger},
			sceneedit.TimeModule{FixedStep: cfg.FixedStep()},
			sceneedit.InputModule{},
			sceneedit.AnimationModule{},
			sceneedit.HierarchyModule{},
			sceneedit.ObjectEditorModule{},
			sceneedit.OrbitCameraModule{},
			sceneedit.ImportModule{Notifier: srv},
			sceneedit.SceneModule{Def: cfg.Scene},
			srv,
		).
		Build()

	if len(imports) > 0 {
		im, _ := sceneedit.Resource[sceneedit.Importer](app)
		if err := im.ImportFiles(ctx, imports...); err != nil {
			logger.Warnf("Some imports failed: %v", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Run(ctx)
	})
	g.Go(func() error {
		err := srv.ListenAndServe(ctx, cfg.Editor.Listen)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	return g.Wait()
}

// Package server initializes and runs the VoxDrop server: it opens the
// durable account store, wires the inbox service and HTTP surface, and
// handles graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/voxdrop/voxdrop/internal/filex"
	"github.com/voxdrop/voxdrop/internal/identity"
	"github.com/voxdrop/voxdrop/internal/inbox"
	"github.com/voxdrop/voxdrop/internal/logging"
	"github.com/voxdrop/voxdrop/internal/server/config"
	"github.com/voxdrop/voxdrop/internal/server/httpapi"
	"github.com/voxdrop/voxdrop/internal/store"
	"github.com/voxdrop/voxdrop/internal/token"
)

type App struct {
	config *config.Config
	logger logging.Logger
	http   *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	if c.SecretKey == "" {
		return nil, fmt.Errorf("secret key is not configured")
	}

	if _, err := filex.EnsureDir(filepath.Dir(c.StorePath)); err != nil {
		return nil, fmt.Errorf("store dir init: %w", err)
	}

	st, err := store.Open(c.StorePath, store.Options{
		Timeout:       c.StoreTimeout,
		AutoProvision: c.AutoProvision,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("store init: %w", err)
	}

	tm, err := token.NewManager([]byte(c.SecretKey), c.TokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token manager init: %w", err)
	}

	uploads, err := httpapi.NewUploadHandler(c.UploadDir, "/videos")
	if err != nil {
		return nil, fmt.Errorf("upload dir init: %w", err)
	}

	svc := inbox.NewService(st, tm, identity.NewNormalizer(c.MinUsernameLength), logger)
	httpServer := httpapi.NewServer(c.EndpointAddr, logger, svc, uploads)

	return &App{config: c, logger: logger, http: httpServer}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}

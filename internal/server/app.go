// Package server wires the CropCare server: it opens the JSON stores and the
// image backend, builds the provider clients and services, and runs the HTTP
// API until a termination signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/cropcare/internal/cryptox"
	"github.com/dmitrijs2005/cropcare/internal/logging"
	"github.com/dmitrijs2005/cropcare/internal/server/clients/assistant"
	"github.com/dmitrijs2005/cropcare/internal/server/clients/geo"
	"github.com/dmitrijs2005/cropcare/internal/server/clients/weather"
	"github.com/dmitrijs2005/cropcare/internal/server/config"
	"github.com/dmitrijs2005/cropcare/internal/server/httpapi"
	"github.com/dmitrijs2005/cropcare/internal/server/repositories/forum"
	"github.com/dmitrijs2005/cropcare/internal/server/repositories/images"
	"github.com/dmitrijs2005/cropcare/internal/server/repositories/users"
	"github.com/dmitrijs2005/cropcare/internal/server/services"
	"github.com/dmitrijs2005/cropcare/internal/server/session"
)

const sweepInterval = time.Minute

type App struct {
	config   *config.Config
	logger   logging.Logger
	sessions *session.Manager
	http     *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	scheme, err := cryptox.ParseScheme(c.PasswordScheme)
	if err != nil {
		return nil, err
	}

	store, err := images.Open(ctx, c.ImageBackend, c.ImageDirPath(), images.S3Options{
		Region:    c.S3Region,
		AccessKey: c.S3RootUser,
		SecretKey: c.S3RootPassword,
		Bucket:    c.S3Bucket,
		Endpoint:  c.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("image store init error: %w", err)
	}

	userSvc := services.NewUserService(users.NewFileRepository(c.UserFilePath(), logger), scheme, logger)
	// load once at startup so a legacy document is upgraded before serving
	if _, err := userSvc.Load(ctx); err != nil {
		return nil, fmt.Errorf("user store init error: %w", err)
	}

	sessions := session.NewManager(c.SessionValidityDuration, logger)

	svc := httpapi.Services{
		Users: userSvc,
		Weather: services.NewWeatherService(
			weather.NewClient(c.WeatherBaseURL, c.WeatherAPIKey, c.ExternalTimeout),
			geo.NewClient(c.GeoURL, c.GeoTimeout),
			userSvc,
			logger,
		),
		Forum:    services.NewForumService(forum.NewFileRepository(c.ForumFilePath(), logger), store, logger),
		Chat:     services.NewChatService(assistant.NewClient(c.AssistantBaseURL, c.AssistantAPIKey, c.AssistantModel, c.AssistantTimeout), logger),
		Sessions: sessions,
	}

	if c.WeatherAPIKey == "" {
		logger.Warn(ctx, "weather API key not set", "env", config.EnvWeatherAPIKey)
	}
	if c.AssistantAPIKey == "" {
		logger.Warn(ctx, "assistant API key not set", "env", config.EnvAssistantAPIKey)
	}

	return &App{
		config:   c,
		logger:   logger,
		sessions: sessions,
		http:     httpapi.NewServer(c.EndpointAddrHTTP, logger, svc, c.SecretKey, c.MaxUploadSizeByte),
	}, nil
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

// Run blocks until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "data_dir", app.config.DataDir, "image_backend", app.config.ImageBackend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.sessions.RunSweeper(ctx, sweepInterval)
	}()

	wg.Wait()
	app.logger.Info(context.Background(), "App stopped")
}

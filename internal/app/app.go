package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/glossa/internal/clients/youtube"
	"github.com/bobmcallan/glossa/internal/common"
	core "github.com/bobmcallan/glossa/internal/glossary"
	"github.com/bobmcallan/glossa/internal/interfaces"
	"github.com/bobmcallan/glossa/internal/mcptools"
	"github.com/bobmcallan/glossa/internal/metrics"
	glossarysvc "github.com/bobmcallan/glossa/internal/services/glossary"
	"github.com/bobmcallan/glossa/internal/storage"
)

// App holds the initialized source, service, clients and the MCP server.
// It is the shared core used by both cmd/glossa-server and cmd/glossa.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Source      interfaces.TermSource
	Glossary    interfaces.GlossaryService
	Videos      interfaces.VideoClient
	Metrics     *metrics.Recorder
	MCPServer   *server.MCPServer
	StartupTime time.Time

	watcher *storage.FileWatcher
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ResolveConfigPath picks the config file: the explicit path, then
// GLOSSA_CONFIG, then glossa.toml next to the binary, then config/glossa.toml.
func ResolveConfigPath(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("GLOSSA_CONFIG"); env != "" {
		return env
	}
	candidate := filepath.Join(getBinaryDir(), "glossa.toml")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return "config/glossa.toml"
}

// NewApp loads configuration and initializes everything from it.
// configPath may be empty, in which case ResolveConfigPath decides.
func NewApp(configPath string) (*App, error) {
	common.LoadVersionFromFile()

	config, err := common.LoadConfig(ResolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative log file path to binary directory
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(getBinaryDir(), config.Logging.FilePath)
	}

	return New(context.Background(), config, common.NewLoggerFromConfig(config.Logging))
}

// New initializes the app from an already loaded config.
func New(ctx context.Context, config *common.Config, logger *common.Logger) (*App, error) {
	startupStart := time.Now()

	source, err := storage.NewTermSource(ctx, logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize term source: %w", err)
	}

	recorder := metrics.NewRecorder()

	mc := config.Glossary.Matcher
	matcher := core.NewMatcher(core.MatcherOptions{
		Threshold:      mc.Threshold,
		Location:       mc.Location,
		Distance:       mc.Distance,
		IgnoreLocation: mc.IgnoreLocation,
	})

	glossaryService := glossarysvc.NewService(source, matcher, logger,
		glossarysvc.WithMetrics(recorder),
		glossarysvc.WithQuietPeriod(config.Glossary.GetDebounce()),
		glossarysvc.WithSuggestLimit(config.Glossary.SuggestLimit),
		glossarysvc.WithPageSize(config.Glossary.PageSize),
	)

	yt := config.Clients.YouTube
	videoClient := youtube.NewClient(yt.APIKey,
		youtube.WithBaseURL(yt.BaseURL),
		youtube.WithChannelID(yt.ChannelID),
		youtube.WithMaxResults(yt.MaxResults),
		youtube.WithRateLimit(yt.RateLimit),
		youtube.WithTimeout(yt.GetTimeout()),
		youtube.WithLogger(logger),
	)
	if !videoClient.Configured() {
		logger.Warn().Msg("YouTube API key not configured - video search will be unavailable")
	} else {
		logger.Debug().Interface("youtube", common.Redact(map[string]string{
			"api_key":    yt.APIKey,
			"channel_id": yt.ChannelID,
			"base_url":   yt.BaseURL,
		})).Msg("YouTube client configured")
	}

	mcpServer := server.NewMCPServer(
		"glossa",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)
	mcptools.Register(mcpServer, glossaryService, logger)

	a := &App{
		Config:      config,
		Logger:      logger,
		Source:      source,
		Glossary:    glossaryService,
		Videos:      videoClient,
		Metrics:     recorder,
		MCPServer:   mcpServer,
		StartupTime: startupStart,
	}

	logger.Info().
		Str("source", source.Name()).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// Warm loads the glossary so the first request does not pay for the fetch.
// It returns the number of unique terms, or -1 after a failure, which is
// logged and left for the next request to retry.
func (a *App) Warm(ctx context.Context) int {
	col, err := a.Glossary.Load(ctx)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("Initial glossary load failed")
		return -1
	}
	return col.Len()
}

// StartWatcher reloads the glossary whenever the file source changes.
// It is a no-op unless glossary.source is "file" and glossary.watch is set.
func (a *App) StartWatcher(ctx context.Context) error {
	if a.Config.Glossary.Source != storage.SourceFile || !a.Config.Glossary.Watch || a.watcher != nil {
		return nil
	}

	w, err := storage.NewFileWatcher(a.Logger, a.Config.Glossary.Path, storage.DefaultWatchDebounce, func(ctx context.Context) {
		col, err := a.Glossary.Reload(ctx)
		if err != nil {
			a.Logger.Warn().Err(err).Msg("Glossary reload after file change failed, keeping previous collection")
			return
		}
		a.Logger.Info().Int("terms", col.Len()).Msg("Glossary reloaded after file change")
	})
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}
	a.watcher = w
	return nil
}

// Close releases all resources held by the App.
// Shutdown order: stop the watcher, then close the source.
func (a *App) Close() {
	if a.watcher != nil {
		a.watcher.Stop()
		a.watcher = nil
	}
	if a.Source != nil {
		if err := storage.CloseSource(a.Source); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close term source")
		}
		a.Source = nil
	}
}

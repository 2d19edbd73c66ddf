package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/blog-automation/internal/config"
	"github.com/jonathan/blog-automation/internal/images"
	"github.com/jonathan/blog-automation/internal/llm"
	"github.com/jonathan/blog-automation/internal/pipeline"
	"github.com/jonathan/blog-automation/internal/publish"
	"github.com/jonathan/blog-automation/internal/research"
	"github.com/jonathan/blog-automation/internal/retry"
	"github.com/jonathan/blog-automation/internal/synthesis"
	"github.com/jonathan/blog-automation/internal/types"
	"github.com/jonathan/blog-automation/internal/youtube"
)

var runCommand = &cobra.Command{
	Use:   "run <topic>",
	Short: "Run the full blog automation pipeline end-to-end",
	Long: `Orchestrates the entire blog generation process: research -> synthesis -> image curation -> publishing.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	Args: cobra.ExactArgs(1),
	RunE: runPipelineCmd,
}

var (
	runConfigPath    string
	runPlatform      string
	runPublishStatus string
	runMaxVideos     int
	runMinWords      int
	runMaxWords      int
	runImageCount    int
	runFreshnessDays int
	runOutDir        string
	runGeminiKey     string
	runYouTubeKey    string
	runDatabaseURL   string
	runVerbose       bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runPlatform, "platform", "p", "", "Publishing target: devto, hashnode, or local")
	runCommand.Flags().StringVar(&runPublishStatus, "publish-status", "", "Publish immediately (public) or create a draft (draft)")
	runCommand.Flags().IntVar(&runMaxVideos, "max-videos", 0, "Maximum videos to research (1-10)")
	runCommand.Flags().IntVar(&runMinWords, "min-words", 0, "Minimum draft word count")
	runCommand.Flags().IntVar(&runMaxWords, "max-words", 0, "Maximum draft word count")
	runCommand.Flags().IntVar(&runImageCount, "images", 0, "Number of images to curate")
	runCommand.Flags().IntVar(&runFreshnessDays, "freshness-days", 0, "Only consider videos published within this many days")
	runCommand.Flags().StringVarP(&runOutDir, "out-dir", "o", "", "Directory for saved run artifacts")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed stage output")

	// API keys can be passed as flags, or read from env vars
	runCommand.Flags().StringVar(&runGeminiKey, "gemini-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")
	runCommand.Flags().StringVar(&runYouTubeKey, "youtube-key", "", "YouTube Data API key (optional, defaults to YOUTUBE_API_KEY env var)")

	// Database URL for artifact persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, args []string) error {
	// Cancel the run cleanly on Ctrl-C; unfinished stages are marked skipped
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	topic, err := types.NewTopic(args[0], runConfigFrom(cfg))
	if err != nil {
		return err
	}

	stages, cleanup, err := buildStages(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	orch := pipeline.NewOrchestrator(stages, pipeline.Options{
		OutDir:      cfg.OutDir,
		DatabaseURL: cfg.DatabaseURL,
		Verbose:     cfg.Verbose,
	})

	report, err := orch.Run(ctx, topic)
	if err != nil {
		return err
	}
	if report.Failed {
		return fmt.Errorf("run failed: %s", report.FailReason)
	}
	return nil
}

// resolveConfig merges config file values, CLI overrides, env vars, and defaults
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loadedCfg
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("platform") {
		cfg.Platform = runPlatform
	}
	if cmd.Flags().Changed("publish-status") {
		cfg.PublishStatus = runPublishStatus
	}
	if cmd.Flags().Changed("max-videos") {
		cfg.MaxVideos = runMaxVideos
	}
	if cmd.Flags().Changed("min-words") {
		cfg.MinWordCount = runMinWords
	}
	if cmd.Flags().Changed("max-words") {
		cfg.MaxWordCount = runMaxWords
	}
	if cmd.Flags().Changed("images") {
		cfg.ImageCount = runImageCount
	}
	if cmd.Flags().Changed("freshness-days") {
		cfg.FreshnessDays = runFreshnessDays
	}
	if cmd.Flags().Changed("out-dir") {
		cfg.OutDir = runOutDir
	}
	if cmd.Flags().Changed("gemini-key") {
		cfg.GeminiAPIKey = runGeminiKey
	}
	if cmd.Flags().Changed("youtube-key") {
		cfg.YouTubeAPIKey = runYouTubeKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}

	// Step 3: Fill credentials from the environment
	cfg = cfg.MergeWithDefaults(config.Config{
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		YouTubeAPIKey: os.Getenv("YOUTUBE_API_KEY"),
		PexelsAPIKey:  os.Getenv("PEXELS_API_KEY"),
		UnsplashKey:   os.Getenv("UNSPLASH_ACCESS_KEY"),
		DevToAPIKey:   os.Getenv("DEVTO_API_KEY"),
		HashnodeToken: os.Getenv("HASHNODE_TOKEN"),
		HashnodePubID: os.Getenv("HASHNODE_PUBLICATION_ID"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
	})

	// Step 4: Apply defaults for everything still unset
	defaultRun := types.DefaultRunConfig()
	cfg = cfg.MergeWithDefaults(config.Config{
		Platform:      string(defaultRun.TargetPlatform),
		PublishStatus: string(defaultRun.PublishStatus),
		MaxVideos:     defaultRun.MaxVideos,
		MinWordCount:  defaultRun.MinWordCount,
		MaxWordCount:  defaultRun.MaxWordCount,
		ImageCount:    defaultRun.ImageCount,
		FreshnessDays: defaultRun.RecencyWindowDays,
		OutDir:        "local_blogs",
	})

	// Step 5: Validate required fields
	if cfg.GeminiAPIKey == "" {
		return cfg, fmt.Errorf("GEMINI_API_KEY environment variable or --gemini-key flag is required")
	}
	if cfg.YouTubeAPIKey == "" {
		return cfg, fmt.Errorf("YOUTUBE_API_KEY environment variable or --youtube-key flag is required")
	}
	switch types.Platform(cfg.Platform) {
	case types.PlatformDevTo:
		if cfg.DevToAPIKey == "" {
			return cfg, fmt.Errorf("DEVTO_API_KEY is required when publishing to devto")
		}
	case types.PlatformHashnode:
		if cfg.HashnodeToken == "" || cfg.HashnodePubID == "" {
			return cfg, fmt.Errorf("HASHNODE_TOKEN and HASHNODE_PUBLICATION_ID are required when publishing to hashnode")
		}
	}

	return cfg, nil
}

func runConfigFrom(cfg config.Config) types.RunConfig {
	return types.RunConfig{
		MaxVideos:         cfg.MaxVideos,
		MinWordCount:      cfg.MinWordCount,
		MaxWordCount:      cfg.MaxWordCount,
		ImageCount:        cfg.ImageCount,
		RecencyWindowDays: cfg.FreshnessDays,
		TargetPlatform:    types.Platform(cfg.Platform),
		PublishStatus:     types.PublishStatus(cfg.PublishStatus),
	}
}

// buildStages wires the external clients into the four pipeline stages.
// The returned cleanup closes the LLM client.
func buildStages(ctx context.Context, cfg config.Config) (pipeline.Stages, func(), error) {
	noop := func() {}

	discovery, err := youtube.NewDiscoveryClient(ctx, cfg.YouTubeAPIKey)
	if err != nil {
		return pipeline.Stages{}, noop, fmt.Errorf("failed to create YouTube client: %w", err)
	}

	llmClient, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return pipeline.Stages{}, noop, fmt.Errorf("failed to create LLM client: %w", err)
	}
	cleanup := func() { _ = llmClient.Close() }

	var imageClients []images.SearchClient
	if cfg.PexelsAPIKey != "" {
		pexels, err := images.NewPexelsClient(cfg.PexelsAPIKey)
		if err != nil {
			return pipeline.Stages{}, cleanup, err
		}
		imageClients = append(imageClients, pexels)
	}
	if cfg.UnsplashKey != "" {
		unsplash, err := images.NewUnsplashClient(cfg.UnsplashKey)
		if err != nil {
			return pipeline.Stages{}, cleanup, err
		}
		imageClients = append(imageClients, unsplash)
	}

	publisher, err := buildPublisher(cfg)
	if err != nil {
		return pipeline.Stages{}, cleanup, err
	}

	policy := retry.DefaultPolicy()
	stages := pipeline.Stages{
		Research:  research.NewStage(discovery, youtube.NewTranscriptClient(), policy),
		Synthesis: synthesis.NewStage(llmClient, policy),
		Images:    images.NewStage(imageClients, policy),
		Publish:   publisher,
	}
	return stages, cleanup, nil
}

func buildPublisher(cfg config.Config) (pipeline.PublishStage, error) {
	switch types.Platform(cfg.Platform) {
	case types.PlatformDevTo:
		client, err := publish.NewDevToClient(cfg.DevToAPIKey)
		if err != nil {
			return nil, err
		}
		return publish.NewStage(client, retry.DefaultPolicy()), nil
	case types.PlatformHashnode:
		client, err := publish.NewHashnodeClient(cfg.HashnodeToken, cfg.HashnodePubID)
		if err != nil {
			return nil, err
		}
		return publish.NewStage(client, retry.DefaultPolicy()), nil
	case types.PlatformLocal:
		return publish.NewLocalStage(), nil
	default:
		return nil, fmt.Errorf("unsupported platform %q", cfg.Platform)
	}
}

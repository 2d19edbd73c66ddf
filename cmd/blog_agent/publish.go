package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/blog-automation/internal/config"
	"github.com/jonathan/blog-automation/internal/observability"
	"github.com/jonathan/blog-automation/internal/pipeline"
	"github.com/jonathan/blog-automation/internal/store"
	"github.com/jonathan/blog-automation/internal/types"
)

var publishCommand = &cobra.Command{
	Use:   "publish <run-dir>",
	Short: "Publish or re-publish a previously generated run",
	Long: `Loads the draft and image collection saved by a prior run and pushes them to the target platform.

Publishing is idempotent: if the post already exists on the platform, the existing post is returned instead of creating a duplicate.`,
	Args: cobra.ExactArgs(1),
	RunE: publishRunCmd,
}

var (
	publishPlatform string
	publishStatus   string
	publishTimeout  time.Duration
)

func init() {
	publishCommand.Flags().StringVarP(&publishPlatform, "platform", "p", "", "Publishing target: devto, hashnode, or local (defaults to the run's target)")
	publishCommand.Flags().StringVar(&publishStatus, "publish-status", "", "Publish immediately (public) or create a draft (draft)")
	publishCommand.Flags().DurationVar(&publishTimeout, "timeout", pipeline.DefaultPublishTimeout, "Timeout for the publish call")

	rootCmd.AddCommand(publishCommand)
}

func publishRunCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	runStore, err := store.OpenRunStore(args[0])
	if err != nil {
		return err
	}

	draft, err := runStore.LoadDraft()
	if err != nil {
		return fmt.Errorf("failed to load draft: %w", err)
	}
	collection, err := runStore.LoadImages()
	if err != nil {
		// Images are optional; publish text-only if the artifact is missing
		collection = &types.ImageCollection{}
	}
	meta, err := runStore.LoadMetadata()
	if err != nil {
		return fmt.Errorf("failed to load run metadata: %w", err)
	}

	cfg := meta.Config
	if cmd.Flags().Changed("platform") {
		cfg.TargetPlatform = types.Platform(publishPlatform)
	}
	if cmd.Flags().Changed("publish-status") {
		cfg.PublishStatus = types.PublishStatus(publishStatus)
	}

	topic, err := types.NewTopic(meta.Topic, cfg)
	if err != nil {
		return err
	}

	stage, err := buildPublisher(publishConfigFrom(cfg))
	if err != nil {
		return err
	}

	record := stage.Publish(ctx, topic, draft, collection)
	if err := runStore.SaveJSON(store.FilePublicationRecord, record); err != nil {
		return fmt.Errorf("failed to save publication record: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintRunReport(&types.RunReport{
		Topic:       meta.Topic,
		Publication: record,
		Failed:      record.Status == types.PublicationFailed,
		FailReason:  record.FailureReason,
	})

	if record.Status == types.PublicationFailed {
		return fmt.Errorf("publish failed: %s", record.FailureReason)
	}
	return nil
}

// publishConfigFrom builds the credential config for a standalone publish,
// reading platform credentials from the environment
func publishConfigFrom(run types.RunConfig) config.Config {
	return config.Config{
		Platform:      string(run.TargetPlatform),
		DevToAPIKey:   os.Getenv("DEVTO_API_KEY"),
		HashnodeToken: os.Getenv("HASHNODE_TOKEN"),
		HashnodePubID: os.Getenv("HASHNODE_PUBLICATION_ID"),
	}
}

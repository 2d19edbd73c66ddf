// Package pipeline provides the high-level orchestration for the blog
// generation process: a fixed stage sequence with per-stage timeouts,
// a criticality policy deciding fatal versus degraded failures, and a
// RunReport accumulated across every stage transition.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/blog-automation/internal/db"
	"github.com/jonathan/blog-automation/internal/images"
	"github.com/jonathan/blog-automation/internal/observability"
	"github.com/jonathan/blog-automation/internal/publish"
	"github.com/jonathan/blog-automation/internal/research"
	"github.com/jonathan/blog-automation/internal/store"
	"github.com/jonathan/blog-automation/internal/synthesis"
	"github.com/jonathan/blog-automation/internal/types"
)

// Default per-stage timeouts
const (
	DefaultResearchTimeout  = 120 * time.Second
	DefaultSynthesisTimeout = 180 * time.Second
	DefaultImagesTimeout    = 60 * time.Second
	DefaultPublishTimeout   = 60 * time.Second
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// ResearchStage discovers source material for a topic
type ResearchStage interface {
	Discover(ctx context.Context, topic types.Topic) (*types.ResearchReport, error)
}

// SynthesisStage turns a research report into a blog draft
type SynthesisStage interface {
	Synthesize(ctx context.Context, topic types.Topic, report *types.ResearchReport) (*types.BlogDraft, error)
}

// ImageStage curates supporting images for a draft
type ImageStage interface {
	Curate(ctx context.Context, draft *types.BlogDraft, topic string, imageCount int) (*images.Result, error)
}

// PublishStage publishes a finalized draft. Its record is always returned,
// including on failure; the stage never aborts the run.
type PublishStage interface {
	Publish(ctx context.Context, topic types.Topic, draft *types.BlogDraft, collection *types.ImageCollection) *types.PublicationRecord
}

// Stages bundles the four stage implementations
type Stages struct {
	Research  ResearchStage
	Synthesis SynthesisStage
	Images    ImageStage
	Publish   PublishStage
}

// Options holds run-level wiring that is not part of the topic config
type Options struct {
	OutDir           string
	DatabaseURL      string
	Verbose          bool
	OnProgress       ProgressCallback
	ResearchTimeout  time.Duration
	SynthesisTimeout time.Duration
	ImagesTimeout    time.Duration
	PublishTimeout   time.Duration
}

// Orchestrator owns the fixed stage sequence
type Orchestrator struct {
	stages  Stages
	opts    Options
	printer *observability.Printer
}

// NewOrchestrator creates an orchestrator over the given stages
func NewOrchestrator(stages Stages, opts Options) *Orchestrator {
	if opts.OutDir == "" {
		opts.OutDir = "local_blogs"
	}
	if opts.ResearchTimeout <= 0 {
		opts.ResearchTimeout = DefaultResearchTimeout
	}
	if opts.SynthesisTimeout <= 0 {
		opts.SynthesisTimeout = DefaultSynthesisTimeout
	}
	if opts.ImagesTimeout <= 0 {
		opts.ImagesTimeout = DefaultImagesTimeout
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = DefaultPublishTimeout
	}
	return &Orchestrator{
		stages:  stages,
		opts:    opts,
		printer: observability.NewPrinter(os.Stdout),
	}
}

// Run executes the pipeline for one topic and returns the RunReport as its
// sole output. Stage failures are folded into the report per the
// criticality policy: research and synthesis failures are fatal, image
// curation degrades, publishing failure is recorded but never discards the
// report. Cancellation between stages stops new work and returns the
// report accumulated so far.
func (o *Orchestrator) Run(ctx context.Context, topic types.Topic) (*types.RunReport, error) {
	started := time.Now().UTC()
	report := &types.RunReport{
		RunID:     uuid.New().String(),
		Topic:     topic.Query,
		StartedAt: started,
	}

	runStore, err := store.NewRunStore(o.opts.OutDir, topic.Query, started)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Run %s: artifacts in %s\n", report.RunID, runStore.Dir())

	database, dbRunID := o.connectDatabase(ctx, topic)
	if database != nil {
		defer database.Close()
	}

	finish := func() *types.RunReport {
		report.FinishedAt = time.Now().UTC()
		_ = runStore.SaveJSON(store.FileRunReport, report)
		if database != nil {
			_ = database.SaveArtifact(ctx, dbRunID, db.StepRunReport, report)
			status := "completed"
			if report.Failed {
				status = "failed"
			}
			_ = database.CompleteRun(context.WithoutCancel(ctx), dbRunID, status)
		}
		return report
	}

	// Stage 1/4: research
	fmt.Printf("Stage 1/4: Researching videos for %q...\n", topic.Query)
	researchReport, status := o.runResearch(ctx, topic)
	report.Stages = append(report.Stages, status)
	if status.State == types.StageFailed {
		report.Failed = true
		report.FailReason = status.Detail
		return finish(), nil
	}
	_ = runStore.SaveJSON(store.FileResearchReport, researchReport)
	if database != nil {
		_ = database.SaveArtifact(ctx, dbRunID, db.StepResearchReport, researchReport)
	}
	if o.opts.Verbose {
		o.printer.PrintResearchReport(researchReport)
	}
	o.emitProgress(string(types.StageResearch), researchReport.Summary, report.RunID)
	if skipped := o.checkCancelled(ctx, report); skipped {
		return finish(), nil
	}

	// Stage 2/4: synthesis
	fmt.Printf("Stage 2/4: Synthesizing draft...\n")
	draft, status := o.runSynthesis(ctx, topic, researchReport)
	report.Stages = append(report.Stages, status)
	if status.State == types.StageFailed {
		report.Failed = true
		report.FailReason = status.Detail
		return finish(), nil
	}
	_ = runStore.SaveJSON(store.FileBlogDraft, draft)
	_ = runStore.SaveText(store.FileBlogPost, draft.BodyMarkdown)
	_ = runStore.SaveMetadata(topic, draft, time.Now().UTC())
	if database != nil {
		_ = database.SaveArtifact(ctx, dbRunID, db.StepBlogDraft, draft)
	}
	if o.opts.Verbose {
		o.printer.PrintDraft(draft)
	}
	o.emitProgress(string(types.StageSynthesis), fmt.Sprintf("Draft %q (%d words)", draft.Title, draft.WordCount), report.RunID)
	if skipped := o.checkCancelled(ctx, report); skipped {
		return finish(), nil
	}

	// Stage 3/4: image curation (degrades, never fatal)
	fmt.Printf("Stage 3/4: Curating images...\n")
	collection, status := o.runImages(ctx, topic, draft)
	report.Stages = append(report.Stages, status)
	_ = runStore.SaveJSON(store.FileImageCollection, collection)
	if database != nil {
		_ = database.SaveArtifact(ctx, dbRunID, db.StepImageCollection, collection)
	}
	if o.opts.Verbose {
		o.printer.PrintImageCollection(collection)
	}
	o.emitProgress(string(types.StageImages), status.Detail, report.RunID)
	if skipped := o.checkCancelled(ctx, report); skipped {
		return finish(), nil
	}

	// Stage 4/4: publishing (failure surfaces in the record, run completes)
	fmt.Printf("Stage 4/4: Publishing to %s...\n", topic.Config.TargetPlatform)
	record, status := o.runPublish(ctx, topic, draft, collection)
	report.Stages = append(report.Stages, status)
	report.Publication = record
	_ = runStore.SaveJSON(store.FilePublicationRecord, record)
	if database != nil {
		_ = database.SaveArtifact(ctx, dbRunID, db.StepPublicationRecord, record)
	}
	o.emitProgress(string(types.StagePublishing), string(record.Status), report.RunID)

	return finish(), nil
}

// runResearch applies the research timeout and maps failures to the policy:
// zero usable videos is fatal
func (o *Orchestrator) runResearch(ctx context.Context, topic types.Topic) (*types.ResearchReport, types.StageStatus) {
	start := time.Now()
	stageCtx, cancel := context.WithTimeout(ctx, o.opts.ResearchTimeout)
	defer cancel()

	researchReport, err := o.stages.Research.Discover(stageCtx, topic)
	took := time.Since(start)
	if err != nil {
		detail := "no research material"
		if !errors.Is(err, research.ErrInsufficientMaterial) {
			detail = err.Error()
		}
		return nil, types.StageStatus{Stage: types.StageResearch, State: types.StageFailed, Detail: detail, Duration: took}
	}

	state := types.StageSuccess
	detail := researchReport.Summary
	if len(researchReport.UsableEntries()) < len(researchReport.Entries) {
		state = types.StageDegraded
		detail = fmt.Sprintf("%s; some videos had no usable content", researchReport.Summary)
	}
	return researchReport, types.StageStatus{Stage: types.StageResearch, State: state, Detail: detail, Duration: took}
}

// runSynthesis applies the synthesis timeout; OutOfBounds after the retry
// budget is fatal
func (o *Orchestrator) runSynthesis(ctx context.Context, topic types.Topic, researchReport *types.ResearchReport) (*types.BlogDraft, types.StageStatus) {
	start := time.Now()
	stageCtx, cancel := context.WithTimeout(ctx, o.opts.SynthesisTimeout)
	defer cancel()

	draft, err := o.stages.Synthesis.Synthesize(stageCtx, topic, researchReport)
	took := time.Since(start)
	if err != nil {
		detail := err.Error()
		if errors.Is(err, synthesis.ErrOutOfBounds) {
			detail = "OutOfBounds: " + detail
		}
		return nil, types.StageStatus{Stage: types.StageSynthesis, State: types.StageFailed, Detail: detail, Duration: took}
	}
	return draft, types.StageStatus{
		Stage:    types.StageSynthesis,
		State:    types.StageSuccess,
		Detail:   fmt.Sprintf("%d words", draft.WordCount),
		Duration: took,
	}
}

// runImages applies the images timeout. All providers exhausted (or zero
// assets) degrades the run; a partial provider outage with assets in hand
// is still success.
func (o *Orchestrator) runImages(ctx context.Context, topic types.Topic, draft *types.BlogDraft) (*types.ImageCollection, types.StageStatus) {
	start := time.Now()
	stageCtx, cancel := context.WithTimeout(ctx, o.opts.ImagesTimeout)
	defer cancel()

	result, err := o.stages.Images.Curate(stageCtx, draft, topic.Query, topic.Config.ImageCount)
	took := time.Since(start)
	if err != nil || result == nil {
		empty := &types.ImageCollection{}
		return empty, types.StageStatus{Stage: types.StageImages, State: types.StageDegraded, Detail: "no images", Duration: took}
	}

	collection := result.Collection
	if collection.Empty() {
		return collection, types.StageStatus{Stage: types.StageImages, State: types.StageDegraded, Detail: "no images", Duration: took}
	}

	detail := fmt.Sprintf("%d images", len(collection.Assets))
	if len(result.ProviderErrors) > 0 {
		names := make([]string, 0, len(result.ProviderErrors))
		for name := range result.ProviderErrors {
			names = append(names, name)
		}
		sort.Strings(names)
		detail = fmt.Sprintf("%d images (providers down: %v)", len(collection.Assets), names)
	}
	return collection, types.StageStatus{Stage: types.StageImages, State: types.StageSuccess, Detail: detail, Duration: took}
}

// runPublish applies the publish timeout; the record carries any failure
func (o *Orchestrator) runPublish(ctx context.Context, topic types.Topic, draft *types.BlogDraft, collection *types.ImageCollection) (*types.PublicationRecord, types.StageStatus) {
	start := time.Now()
	stageCtx, cancel := context.WithTimeout(ctx, o.opts.PublishTimeout)
	defer cancel()

	record := o.stages.Publish.Publish(stageCtx, topic, draft, collection)
	took := time.Since(start)

	state := types.StageSuccess
	detail := fmt.Sprintf("%s on %s", record.Status, record.Platform)
	if record.Status == types.PublicationFailed {
		state = types.StageFailed
		detail = record.FailureReason
	}
	return record, types.StageStatus{Stage: types.StagePublishing, State: state, Detail: detail, Duration: took}
}

// checkCancelled records skipped stages when the external cancellation
// signal fires between stages
func (o *Orchestrator) checkCancelled(ctx context.Context, report *types.RunReport) bool {
	if ctx.Err() == nil {
		return false
	}
	for _, stage := range []types.StageName{types.StageResearch, types.StageSynthesis, types.StageImages, types.StagePublishing} {
		if report.StageStatusFor(stage) == nil {
			report.Append(stage, types.StageSkipped, "run cancelled", 0)
		}
	}
	report.Failed = true
	report.FailReason = "run cancelled"
	return true
}

// connectDatabase opens the optional artifact mirror, warning and
// continuing on failure exactly like a missing configuration
func (o *Orchestrator) connectDatabase(ctx context.Context, topic types.Topic) (*db.DB, uuid.UUID) {
	if o.opts.DatabaseURL == "" {
		return nil, uuid.Nil
	}
	database, err := db.Connect(ctx, o.opts.DatabaseURL)
	if err != nil {
		fmt.Printf("Warning: failed to connect to database: %v\n", err)
		fmt.Printf("Continuing without database persistence...\n")
		return nil, uuid.Nil
	}
	if err := database.EnsureSchema(ctx); err != nil {
		fmt.Printf("Warning: failed to ensure database schema: %v\n", err)
		database.Close()
		return nil, uuid.Nil
	}
	runID, err := database.CreateRun(ctx, topic.Query, string(topic.Config.TargetPlatform))
	if err != nil {
		fmt.Printf("Warning: failed to create database run: %v\n", err)
		database.Close()
		return nil, uuid.Nil
	}
	if o.opts.Verbose {
		fmt.Printf("[VERBOSE] Created database run: %s\n", runID)
	}
	return database, runID
}

// emitProgress calls the progress callback if configured
func (o *Orchestrator) emitProgress(stage, message, runID string) {
	if o.opts.OnProgress != nil {
		o.opts.OnProgress(ProgressEvent{Stage: stage, Message: message, RunID: runID})
	}
}

var (
	_ ResearchStage  = (*research.Stage)(nil)
	_ SynthesisStage = (*synthesis.Stage)(nil)
	_ ImageStage     = (*images.Stage)(nil)
	_ PublishStage   = (*publish.Stage)(nil)
)

package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/blog-automation/internal/types"
)

// Artifact step names mirror the stage-named files of the run store
const (
	StepResearchReport    = "research_report"
	StepBlogDraft         = "blog_draft"
	StepImageCollection   = "image_collection"
	StepPublicationRecord = "publication_record"
	StepRunReport         = "run_report"
)

// SaveArtifact upserts one JSON artifact for a run
func (db *DB) SaveArtifact(ctx context.Context, runID uuid.UUID, step string, v any) error {
	content, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s artifact: %w", step, err)
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO pipeline_artifacts (run_id, step, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, step) DO UPDATE SET content = $3, updated_at = NOW()`,
		runID, step, content,
	)
	if err != nil {
		return fmt.Errorf("failed to save %s artifact: %w", step, err)
	}
	return nil
}

// GetArtifact loads one artifact's raw JSON, or nil when absent
func (db *DB) GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM pipeline_artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s artifact: %w", step, err)
	}
	return content, nil
}

// GetBlogDraftByRunID loads the blog draft artifact for a run
func (db *DB) GetBlogDraftByRunID(ctx context.Context, runID uuid.UUID) (*types.BlogDraft, error) {
	content, err := db.GetArtifact(ctx, runID, StepBlogDraft)
	if err != nil || content == nil {
		return nil, err
	}

	var draft types.BlogDraft
	if err := json.Unmarshal(content, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal blog draft: %w", err)
	}
	return &draft, nil
}

// GetImageCollectionByRunID loads the image collection artifact for a run
func (db *DB) GetImageCollectionByRunID(ctx context.Context, runID uuid.UUID) (*types.ImageCollection, error) {
	content, err := db.GetArtifact(ctx, runID, StepImageCollection)
	if err != nil || content == nil {
		return nil, err
	}

	var collection types.ImageCollection
	if err := json.Unmarshal(content, &collection); err != nil {
		return nil, fmt.Errorf("failed to unmarshal image collection: %w", err)
	}
	return &collection, nil
}

// GetRunReportByRunID loads the run report artifact for a run
func (db *DB) GetRunReportByRunID(ctx context.Context, runID uuid.UUID) (*types.RunReport, error) {
	content, err := db.GetArtifact(ctx, runID, StepRunReport)
	if err != nil || content == nil {
		return nil, err
	}

	var report types.RunReport
	if err := json.Unmarshal(content, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run report: %w", err)
	}
	return &report, nil
}

package types

import "time"

// PublicationState is the terminal status of a publish attempt
type PublicationState string

// Publication states
const (
	PublicationPublished PublicationState = "published"
	PublicationDraft     PublicationState = "draft"
	PublicationFailed    PublicationState = "failed"
)

// PublicationRecord is the terminal entity of a run; never mutated once written
type PublicationRecord struct {
	Platform         Platform         `json:"platform"`
	ExternalPostID   string           `json:"external_post_id,omitempty"`
	URL              string           `json:"url,omitempty"`
	Status           PublicationState `json:"status"`
	FailureReason    string           `json:"failure_reason,omitempty"`
	IdempotencyToken string           `json:"idempotency_token,omitempty"`
	TimestampUTC     time.Time        `json:"timestamp_utc"`
}

// StageName identifies one pipeline stage in a RunReport
type StageName string

// Pipeline stages in execution order
const (
	StageResearch   StageName = "research"
	StageSynthesis  StageName = "synthesis"
	StageImages     StageName = "images"
	StagePublishing StageName = "publishing"
)

// StageState is the per-stage outcome recorded in a RunReport
type StageState string

// Stage outcome states
const (
	StageSuccess  StageState = "success"
	StageDegraded StageState = "degraded"
	StageFailed   StageState = "failed"
	StageSkipped  StageState = "skipped"
)

// StageStatus records how one stage finished
type StageStatus struct {
	Stage    StageName     `json:"stage"`
	State    StageState    `json:"state"`
	Detail   string        `json:"detail,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// RunReport aggregates per-stage status plus the final PublicationRecord
// if the run reached publishing. It is the orchestrator's sole output.
type RunReport struct {
	RunID       string             `json:"run_id"`
	Topic       string             `json:"topic"`
	Stages      []StageStatus      `json:"stages"`
	Publication *PublicationRecord `json:"publication,omitempty"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  time.Time          `json:"finished_at"`
	Failed      bool               `json:"failed"`
	FailReason  string             `json:"fail_reason,omitempty"`
}

// Append records a stage transition. Every transition is appended before the
// next stage starts, so a crash mid-run leaves an inspectable trail.
func (r *RunReport) Append(stage StageName, state StageState, detail string, took time.Duration) {
	r.Stages = append(r.Stages, StageStatus{Stage: stage, State: state, Detail: detail, Duration: took})
}

// StageStatusFor returns the recorded status for a stage, or nil if the run
// never reached it
func (r *RunReport) StageStatusFor(stage StageName) *StageStatus {
	for i := range r.Stages {
		if r.Stages[i].Stage == stage {
			return &r.Stages[i]
		}
	}
	return nil
}

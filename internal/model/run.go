package model

import "time"

// RunKind identifies which pipeline entry point produced a crawl run.
type RunKind string

const (
	RunKindDiscover RunKind = "discover"
	RunKindCrawl    RunKind = "crawl"
	RunKindPurge    RunKind = "purge"
)

// RunStatus is the lifecycle state of a crawl run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// CrawlRun records one invocation of a pipeline entry point. Count is the
// entry point's numeric outcome: brands saved, items inserted, or items purged.
type CrawlRun struct {
	ID         string     `json:"id"`
	Kind       RunKind    `json:"kind"`
	Status     RunStatus  `json:"status"`
	Count      int        `json:"count"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

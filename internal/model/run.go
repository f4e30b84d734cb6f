package model

import "time"

const (
	RunStatusOK    = "ok"
	RunStatusError = "error"
)

// RunRecord is the audit row written once per ingestion cycle.
type RunRecord struct {
	ID                string
	StartedAt         time.Time
	FinishedAt        time.Time
	Status            string
	Error             string
	PostsCollected    int
	UniquePosts       int
	ArticlesProcessed int
	ArticlesCleanedUp int
	TrendsIdentified  int
}

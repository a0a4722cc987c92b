package api

import (
	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/database"
	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/snapshot"
)

// Handler serves the latest digest artifacts and the run archive.
// runRepo may be nil when the run archive is disabled.
type Handler struct {
	store   *snapshot.Store
	runRepo *database.RunRepository
}

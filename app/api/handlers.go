package api

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/database"
	"github.com/DiogoBispo/ai-news-intelligence-pipeline/app/snapshot"
)

func NewHandler(store *snapshot.Store, runRepo *database.RunRepository) *Handler {
	return &Handler{
		store:   store,
		runRepo: runRepo,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if h.runRepo != nil {
		if runs, err := h.runRepo.GetRuns(1); err == nil && len(runs) > 0 {
			health["last_run_id"] = runs[0].ID
			health["last_run_finished_at"] = runs[0].FinishedAt.UTC().Format(time.RFC3339)
		}
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetDigestMarkdown(c *gin.Context) {
	data, err := h.store.ReadBytes(snapshot.DigestMarkdown)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.Status(http.StatusNotFound)
			return
		}
		slog.Error("Failed to read digest", "file", snapshot.DigestMarkdown, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "text/markdown; charset=utf-8")
	c.String(http.StatusOK, string(data))
}

func (h *Handler) GetDigestJSON(c *gin.Context) {
	data, err := h.store.ReadBytes(snapshot.DigestJSON)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.Status(http.StatusNotFound)
			return
		}
		slog.Error("Failed to read digest", "file", snapshot.DigestJSON, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (h *Handler) ListRuns(c *gin.Context) {
	if h.runRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run archive disabled"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
			return
		}
		limit = parsed
	}

	runs, err := h.runRepo.GetRuns(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_runs", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	out := make([]map[string]interface{}, 0, len(runs))
	for _, run := range runs {
		out = append(out, map[string]interface{}{
			"id":              run.ID,
			"started_at":      run.StartedAt.UTC().Format(time.RFC3339),
			"finished_at":     run.FinishedAt.UTC().Format(time.RFC3339),
			"input_count":     run.InputCount,
			"dropped_count":   run.DroppedCount,
			"duplicate_count": run.DuplicateCount,
			"digest_count":    run.DigestCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"runs": out})
}

func (h *Handler) GetRunItems(c *gin.Context) {
	if h.runRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run archive disabled"})
		return
	}

	runID := c.Param("id")
	if runID == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	items, err := h.runRepo.GetRunItems(runID)
	if err != nil {
		slog.Error("Database error", "operation", "get_run_items", "run_id", runID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	if len(items) == 0 {
		c.Status(http.StatusNotFound)
		return
	}

	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		entry := map[string]interface{}{
			"position": item.Position,
			"url":      item.URL,
			"title":    item.Title,
			"source":   item.Source,
			"category": item.Category,
			"summary":  item.Summary,
		}
		if item.PublishedAt != nil {
			entry["published_at"] = item.PublishedAt.UTC().Format(time.RFC3339)
		}
		out = append(out, entry)
	}

	c.JSON(http.StatusOK, gin.H{"run_id": runID, "items": out})
}

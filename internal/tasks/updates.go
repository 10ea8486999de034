package tasks

import (
	"fmt"

	"github.com/syncup-music/syncup/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchCatalog Phase = iota
	FetchFavorites
	CacheSongs
	Reconcile
	ExportFavorites
	FetchRadio
	FetchMetrics
)

func (p Phase) String() string {
	switch p {
	case FetchCatalog:
		return "fetch_catalog"
	case FetchFavorites:
		return "fetch_favorites"
	case CacheSongs:
		return "cache_songs"
	case Reconcile:
		return "reconcile"
	case ExportFavorites:
		return "export_favorites"
	case FetchRadio:
		return "fetch_radio"
	case FetchMetrics:
		return "fetch_metrics"
	default:
		return ""
	}
}

func fetchCatalogUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCatalog,
		Step:    step,
		Total:   total,
		Message: "Fetching song catalog...",
	}
}

func fetchFavoritesUpdate(step, total int, username string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFavorites,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching favorites for %s...", username),
	}
}

func cacheSongUpdate(step, total int, song *models.Song) ProgressUpdate {
	if song == nil {
		return ProgressUpdate{
			Phase:   CacheSongs,
			Step:    step,
			Total:   total,
			Message: "Caching songs locally...",
		}
	}
	return ProgressUpdate{
		Phase:   CacheSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, song.Artist, song.Title),
	}
}

func reconcileUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Reconcile,
		Step:    step,
		Total:   total,
		Message: "Re-fetching favorites after failed update...",
	}
}

func exportingUpdate(step, total int, username string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFavorites,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Exporting favorites for %s...", username),
	}
}

func exportCompletedUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFavorites,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("✓ Wrote %s", path),
		Data:    path,
	}
}

func fetchRadioUpdate(step, total int, seed *models.Song) ProgressUpdate {
	if seed == nil {
		return ProgressUpdate{
			Phase:   FetchRadio,
			Step:    step,
			Total:   total,
			Message: "Building radio queue...",
		}
	}
	return ProgressUpdate{
		Phase:   FetchRadio,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Building radio queue from %s - %s...", seed.Artist, seed.Title),
	}
}

func metricUpdate(name string, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMetrics,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching %s...", name),
	}
}

package tasks

import "fmt"

// Phase identifies which stage of a long-running operation an update
// belongs to.
type Phase int

const (
	FetchMovies Phase = iota
	FetchGenres
	FetchActors
	FetchReviews
	FetchUsers
	FetchHistory
	SyncPage
	PruneCache
	ExportGenre
	Done
)

// String returns a short label for the phase.
func (p Phase) String() string {
	switch p {
	case FetchMovies:
		return "movies"
	case FetchGenres:
		return "genres"
	case FetchActors:
		return "actors"
	case FetchReviews:
		return "reviews"
	case FetchUsers:
		return "users"
	case FetchHistory:
		return "history"
	case SyncPage:
		return "sync"
	case PruneCache:
		return "prune"
	case ExportGenre:
		return "export"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// ProgressUpdate reports the state of a long-running operation. Consumers
// read these from a channel; producers never block on a full channel.
type ProgressUpdate struct {
	Phase   Phase
	Message string
	Current int
	Total   int
}

func fetchGenresUpdate(current, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchGenres,
		Message: "Fetching genres...",
		Current: current,
		Total:   total,
	}
}

func syncPageUpdate(page, totalPages, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SyncPage,
		Message: fmt.Sprintf("Caching page %d (%d movies)", page, count),
		Current: page,
		Total:   totalPages,
	}
}

func pruneUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   PruneCache,
		Message: "Pruning stale cache rows...",
	}
}

func operationUpdate(op endpointOperation, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   op.phase,
		Message: op.message,
		Current: step,
		Total:   total,
	}
}

func exportUpdate(name string, current, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportGenre,
		Message: fmt.Sprintf("Exporting %s", name),
		Current: current,
		Total:   total,
	}
}

func doneUpdate(message string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Message: message,
	}
}

package tasks

// Phase labels a stage of the sync pipeline.
type Phase string

const (
	PhasePreflight Phase = "preflight"
	PhaseFetch     Phase = "fetch"
	PhaseNormalize Phase = "normalize"
	PhaseDetails   Phase = "details"
	PhaseReconcile Phase = "reconcile"
	PhaseDownload  Phase = "download"
	PhasePersist   Phase = "persist"
	PhaseDone      Phase = "done"
)

// ProgressUpdate carries pipeline status to an optional consumer.
type ProgressUpdate struct {
	Phase   Phase
	Message string
	Current int
	Total   int
}

func fetchUpdate(playlistID string) ProgressUpdate {
	return ProgressUpdate{Phase: PhaseFetch, Message: "fetching playlist " + playlistID}
}

func normalizeUpdate(count int) ProgressUpdate {
	return ProgressUpdate{Phase: PhaseNormalize, Message: "normalizing playlist items", Total: count}
}

func detailsUpdate(count int) ProgressUpdate {
	return ProgressUpdate{Phase: PhaseDetails, Message: "fetching video details", Total: count}
}

func reconcileUpdate(updates int) ProgressUpdate {
	return ProgressUpdate{Phase: PhaseReconcile, Message: "reconciling records", Current: updates}
}

func downloadUpdate(count int) ProgressUpdate {
	return ProgressUpdate{Phase: PhaseDownload, Message: "downloading media", Total: count}
}

func persistUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: PhasePersist, Message: "writing metadata"}
}

func doneUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: PhaseDone, Message: "sync complete"}
}

// sendUpdate delivers an update without blocking when the consumer
// is absent or slow.
func sendUpdate(ch chan<- ProgressUpdate, update ProgressUpdate) {
	if ch == nil {
		return
	}

	select {
	case ch <- update:
	default:
	}
}

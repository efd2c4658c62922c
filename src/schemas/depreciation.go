package schemas

import (
	"time"

	"github.com/google/uuid"
)

type RecomputeFailure struct {
	AssetID uuid.UUID `json:"asset_id"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
}

// RecomputeSummary reports one recompute run. Changed counts the assets whose
// stored value differed from the freshly computed one.
type RecomputeSummary struct {
	RunID      uuid.UUID          `json:"run_id"`
	Today      string             `json:"today"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Processed  int                `json:"processed"`
	Updated    int                `json:"updated"`
	Changed    int                `json:"changed"`
	Failed     int                `json:"failed"`
	Failures   []RecomputeFailure `json:"failures"`
	Cancelled  bool               `json:"cancelled"`
}

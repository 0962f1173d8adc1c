package eventbus

import "time"

const (
	// ResultsImportedTopic is published after an import batch commits.
	ResultsImportedTopic = "results.imported"
	// ResultsChangedTopic is published after a manual result or raid correction.
	ResultsChangedTopic = "results.changed"
)

// ResultsImportedPayload describes a committed import.
type ResultsImportedPayload struct {
	EventID      int64     `json:"event_id"`
	ChallengeID  *int64    `json:"challenge_id,omitempty"`
	Circuit      string    `json:"circuit"`
	ResultsAdded int       `json:"results_added"`
	CommittedAt  time.Time `json:"committed_at"`
}

// ResultsChangedPayload describes a correction to stored results.
type ResultsChangedPayload struct {
	EventID     int64  `json:"event_id,omitempty"`
	ChallengeID *int64 `json:"challenge_id,omitempty"`
	Reason      string `json:"reason"`
}

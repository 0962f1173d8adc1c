package challengedb

import (
	"time"

	"github.com/uptrace/bun"
)

// Participant is a registered runner, unique by full name.
type Participant struct {
	bun.BaseModel `bun:"table:participants,alias:p"`

	ID          int64   `bun:"id,pk,autoincrement" json:"id"`
	FullName    string  `bun:"full_name,notnull,unique" json:"full_name"`
	Gender      *string `bun:"gender" json:"gender,omitempty"`
	AgeCategory *string `bun:"age_category" json:"age_category,omitempty"`
}

// Challenge is a season spanning two consecutive years.
type Challenge struct {
	bun.BaseModel `bun:"table:challenges,alias:c"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	Name      string `bun:"name,notnull,unique" json:"name"`
	StartYear int    `bun:"start_year,notnull" json:"start_year"`
	EndYear   int    `bun:"end_year,notnull" json:"end_year"`
}

// Event is one raid of a circuit.
type Event struct {
	bun.BaseModel `bun:"table:events,alias:e"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Date        time.Time `bun:"date,type:date,notnull" json:"date"`
	Circuit     string    `bun:"circuit,notnull" json:"circuit"`
	ChallengeID *int64    `bun:"challenge_id" json:"challenge_id,omitempty"`
}

// Result ties a participant to an event.
type Result struct {
	bun.BaseModel `bun:"table:results,alias:r"`

	ID            int64   `bun:"id,pk,autoincrement" json:"id"`
	EventID       int64   `bun:"event_id,notnull" json:"event_id"`
	ParticipantID int64   `bun:"participant_id,notnull" json:"participant_id"`
	Rank          int     `bun:"rank,notnull" json:"rank"`
	Points        int     `bun:"points,notnull" json:"points"`
	Category      *string `bun:"category" json:"category,omitempty"`
}

// ResultView is a result joined with its event and participant.
type ResultView struct {
	ResultID      int64     `bun:"result_id" json:"result_id"`
	EventID       int64     `bun:"event_id" json:"event_id"`
	EventName     string    `bun:"event_name" json:"event_name"`
	EventDate     time.Time `bun:"event_date" json:"event_date"`
	Circuit       string    `bun:"circuit" json:"circuit"`
	ChallengeID   *int64    `bun:"challenge_id" json:"challenge_id,omitempty"`
	ParticipantID int64     `bun:"participant_id" json:"participant_id"`
	FullName      string    `bun:"full_name" json:"full_name"`
	Rank          int       `bun:"rank" json:"rank"`
	Points        int       `bun:"points" json:"points"`
	Category      *string   `bun:"category" json:"category,omitempty"`
}

// InvalidParticipant is a participant whose name is empty or a missing-value
// marker, with the number of results attached to it.
type InvalidParticipant struct {
	ID       int64   `bun:"id" json:"id"`
	FullName *string `bun:"full_name" json:"full_name"`
	Results  int     `bun:"results" json:"results"`
}

// EventFilter narrows ListEvents. Zero values match everything.
type EventFilter struct {
	ChallengeID *int64
	Circuit     string
}

// Summary is the dashboard headline.
type Summary struct {
	Events       int    `json:"events"`
	Participants int    `json:"participants"`
	LastEvent    *Event `json:"last_event,omitempty"`
}

// Dump holds every row of the challenge tables.
type Dump struct {
	Participants []Participant `json:"participants"`
	Challenges   []Challenge   `json:"challenges"`
	Events       []Event       `json:"events"`
	Results      []Result      `json:"results"`
}

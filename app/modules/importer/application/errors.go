package importservice

import (
	"errors"
	"fmt"

	importdomain "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/domain"
	"github.com/google/uuid"
)

var (
	// ErrDuplicateEvent means the event tuple was already imported.
	ErrDuplicateEvent = errors.New("an event with the same name, date, circuit and challenge already exists")

	// ErrPointsDecisionRequired gates analysis until a points source is chosen.
	ErrPointsDecisionRequired = errors.New("file points disagree with ranks: choose a points source")

	// ErrUnresolvedConflict means a conflict entry has no resolution.
	ErrUnresolvedConflict = errors.New("identity conflicts need a resolution")

	// ErrInvalidDecision rejects unknown or contradictory operator choices.
	ErrInvalidDecision = errors.New("invalid import decision")

	// ErrMalformedCell marks rows whose rank could not be parsed.
	ErrMalformedCell = errors.New("unparseable rank cell")

	// ErrNameUnusable marks team slots dropped for an empty or placeholder name.
	ErrNameUnusable = errors.New("empty or placeholder name")

	// ErrAuditWrite is logged when an audit entry cannot be stored.
	ErrAuditWrite = errors.New("audit write failed")
)

// PointsDecisionRequiredError lists the rows behind a points conflict.
type PointsDecisionRequiredError struct {
	Conflicts []importdomain.PointsConflict
}

func (e *PointsDecisionRequiredError) Error() string {
	return fmt.Sprintf("%d rows: %v", len(e.Conflicts), ErrPointsDecisionRequired)
}

func (e *PointsDecisionRequiredError) Is(target error) bool {
	return target == ErrPointsDecisionRequired
}

// UnresolvedConflictError lists the entries missing a resolution.
type UnresolvedConflictError struct {
	EntryIDs []uuid.UUID
}

func (e *UnresolvedConflictError) Error() string {
	return fmt.Sprintf("%d entries: %v", len(e.EntryIDs), ErrUnresolvedConflict)
}

func (e *UnresolvedConflictError) Is(target error) bool {
	return target == ErrUnresolvedConflict
}

package leaderboardservice

import "errors"

var (
	// ErrUnknownCircuit rejects circuits outside the three race series.
	ErrUnknownCircuit = errors.New("unknown circuit")
	// ErrUnknownCategory rejects categories other than Homme, Femme and Mixte.
	ErrUnknownCategory = errors.New("unknown category")
)

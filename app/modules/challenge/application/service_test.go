package challengeservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Black-And-White-Club/raid-challenge/app/eventbus"
	"github.com/Black-And-White-Club/raid-challenge/app/eventdate"
	auditservice "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/application"
	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestService(repo *FakeChallengeRepo) (*ChallengeService, *FakeAudit, *FakePublisher) {
	audit := &FakeAudit{}
	pub := &FakePublisher{}
	dates := eventdate.NewParser(fixedClock{t: time.Date(2024, 5, 12, 9, 0, 0, 0, time.UTC)})
	svc := NewChallengeService(repo, audit, pub, dates, nil, nil, noop.NewTracerProvider().Tracer("test"), nil)
	return svc, audit, pub
}

func TestParseSeason(t *testing.T) {
	tests := []struct {
		in        string
		start     int
		end       int
		wantError bool
	}{
		{in: "2024-2025", start: 2024, end: 2025},
		{in: " 2024 - 2025 ", start: 2024, end: 2025},
		{in: "2024-2026", wantError: true},
		{in: "2025-2024", wantError: true},
		{in: "24-25", wantError: true},
		{in: "season 2024", wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			start, end, err := ParseSeason(tt.in)
			if tt.wantError {
				assert.ErrorIs(t, err, ErrInvalidRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestCreateChallenge(t *testing.T) {
	t.Run("creates and audits", func(t *testing.T) {
		repo := NewFakeChallengeRepo()
		repo.CreateChallengeFunc = func(ctx context.Context, db bun.IDB, c *challengedb.Challenge) (*challengedb.Challenge, bool, error) {
			c.ID = 4
			return c, true, nil
		}
		svc, audit, _ := newTestService(repo)

		c, err := svc.CreateChallenge(context.Background(), "2024 - 2025")
		require.NoError(t, err)
		assert.Equal(t, "2024-2025", c.Name)
		assert.Equal(t, 2024, c.StartYear)
		require.Len(t, audit.Entries, 1)
		assert.Equal(t, auditservice.ActionCreate, audit.Entries[0].Action)
		assert.Equal(t, int64(4), *audit.Entries[0].RecordID)
	})

	t.Run("existing season is returned without audit", func(t *testing.T) {
		repo := NewFakeChallengeRepo()
		repo.CreateChallengeFunc = func(ctx context.Context, db bun.IDB, c *challengedb.Challenge) (*challengedb.Challenge, bool, error) {
			return &challengedb.Challenge{ID: 1, Name: c.Name}, false, nil
		}
		svc, audit, _ := newTestService(repo)

		c, err := svc.CreateChallenge(context.Background(), "2024-2025")
		require.NoError(t, err)
		assert.Equal(t, int64(1), c.ID)
		assert.Empty(t, audit.Entries)
	})

	t.Run("rejects non consecutive years", func(t *testing.T) {
		repo := NewFakeChallengeRepo()
		svc, _, _ := newTestService(repo)

		_, err := svc.CreateChallenge(context.Background(), "2024-2026")
		assert.ErrorIs(t, err, ErrInvalidRange)
		assert.Empty(t, repo.Trace())
	})
}

func TestAddManualResult(t *testing.T) {
	event := &challengedb.Event{ID: 10, Name: "Raid A", Circuit: "trotteur"}

	tests := []struct {
		name       string
		req        ManualResult
		setup      func(*FakeChallengeRepo)
		wantErr    error
		wantPoints int
	}{
		{
			name:       "scored from rank",
			req:        ManualResult{EventID: 10, GivenName: "Marie", FamilyName: "Curie", Category: "F", Rank: 7},
			wantPoints: 24,
		},
		{
			name:    "empty name",
			req:     ManualResult{EventID: 10, GivenName: " ", FamilyName: "nan", Category: "F", Rank: 1},
			wantErr: ErrEmptyName,
		},
		{
			name:    "invalid rank",
			req:     ManualResult{EventID: 10, GivenName: "Marie", FamilyName: "Curie", Category: "F", Rank: 0},
			wantErr: ErrInvalidRank,
		},
		{
			name: "rank already held",
			req:  ManualResult{EventID: 10, GivenName: "Marie", FamilyName: "Curie", Category: "Femme", Rank: 1},
			setup: func(f *FakeChallengeRepo) {
				f.RankTakenFunc = func(ctx context.Context, db bun.IDB, eventID int64, rank int, category string) (string, error) {
					return "Ada Lovelace", nil
				}
			},
			wantErr: ErrRankTaken,
		},
		{
			name: "unknown event",
			req:  ManualResult{EventID: 99, GivenName: "Marie", FamilyName: "Curie", Category: "F", Rank: 1},
			setup: func(f *FakeChallengeRepo) {
				f.GetEventFunc = func(ctx context.Context, db bun.IDB, id int64) (*challengedb.Event, error) {
					return nil, challengedb.ErrNotFound
				}
			},
			wantErr: challengedb.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeChallengeRepo()
			repo.GetEventFunc = func(ctx context.Context, db bun.IDB, id int64) (*challengedb.Event, error) {
				return event, nil
			}
			repo.CreateParticipantFunc = func(ctx context.Context, db bun.IDB, p *challengedb.Participant) (*challengedb.Participant, bool, error) {
				p.ID = 3
				return p, true, nil
			}
			var inserted []challengedb.Result
			repo.InsertResultsFunc = func(ctx context.Context, db bun.IDB, rows []challengedb.Result) error {
				rows[0].ID = 55
				inserted = rows
				return nil
			}
			if tt.setup != nil {
				tt.setup(repo)
			}
			svc, audit, pub := newTestService(repo)

			res, err := svc.AddManualResult(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, audit.Entries)
				assert.Empty(t, pub.Messages)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(55), res.ID)
			assert.Equal(t, tt.wantPoints, res.Points)
			require.Len(t, inserted, 1)
			assert.Equal(t, "Femme", *inserted[0].Category)
			// participant CREATE + result CREATE
			assert.Len(t, audit.Entries, 2)
			require.Len(t, pub.Messages, 1)
			assert.Equal(t, eventbus.ResultsChangedTopic, pub.Messages[0].Topic)
		})
	}
}

func TestAddManualResult_RankTakenNamesHolder(t *testing.T) {
	repo := NewFakeChallengeRepo()
	repo.GetEventFunc = func(ctx context.Context, db bun.IDB, id int64) (*challengedb.Event, error) {
		return &challengedb.Event{ID: id}, nil
	}
	repo.RankTakenFunc = func(ctx context.Context, db bun.IDB, eventID int64, rank int, category string) (string, error) {
		return "Ada Lovelace", nil
	}
	svc, _, _ := newTestService(repo)

	_, err := svc.AddManualResult(context.Background(), ManualResult{EventID: 1, GivenName: "Marie", FamilyName: "Curie", Category: "F", Rank: 2})
	var taken *RankTakenError
	require.True(t, errors.As(err, &taken))
	assert.Equal(t, "Ada Lovelace", taken.Holder)
	assert.Equal(t, "Femme", taken.Category)
}

func TestUpdateResultPoints(t *testing.T) {
	current := &challengedb.ResultView{ResultID: 8, EventID: 10, Points: 20}

	tests := []struct {
		name       string
		points     int
		wantErr    error
		wantUpdate bool
	}{
		{name: "changes points", points: 35, wantUpdate: true},
		{name: "unchanged is a no-op", points: 20},
		{name: "above maximum", points: 36, wantErr: ErrPointsOutOfRange},
		{name: "negative", points: -1, wantErr: ErrPointsOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeChallengeRepo()
			repo.GetResultFunc = func(ctx context.Context, db bun.IDB, id int64) (*challengedb.ResultView, error) {
				return current, nil
			}
			updated := false
			repo.UpdateResultPointsFunc = func(ctx context.Context, db bun.IDB, id int64, points int) error {
				updated = true
				return nil
			}
			svc, audit, pub := newTestService(repo)

			err := svc.UpdateResultPoints(context.Background(), 8, tt.points)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUpdate, updated)
			if tt.wantUpdate {
				require.Len(t, audit.Entries, 1)
				assert.Equal(t, map[string]int{"points": 20}, audit.Entries[0].Before)
				assert.Equal(t, map[string]int{"points": tt.points}, audit.Entries[0].After)
				assert.Len(t, pub.Messages, 1)
			} else {
				assert.Empty(t, audit.Entries)
				assert.Empty(t, pub.Messages)
			}
		})
	}
}

func TestDeleteEvent_ReturnsRemovedResults(t *testing.T) {
	repo := NewFakeChallengeRepo()
	repo.GetEventFunc = func(ctx context.Context, db bun.IDB, id int64) (*challengedb.Event, error) {
		return &challengedb.Event{ID: id, Name: "Raid A"}, nil
	}
	repo.CountResultsForEventFunc = func(ctx context.Context, db bun.IDB, eventID int64) (int, error) {
		return 12, nil
	}
	svc, audit, _ := newTestService(repo)

	n, err := svc.DeleteEvent(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Equal(t, []string{"GetEvent", "CountResultsForEvent", "DeleteEvent"}, repo.Trace())
	require.Len(t, audit.Entries, 1)
	assert.Equal(t, auditservice.ActionDelete, audit.Entries[0].Action)
}

func TestRedateEvent(t *testing.T) {
	repo := NewFakeChallengeRepo()
	repo.GetEventFunc = func(ctx context.Context, db bun.IDB, id int64) (*challengedb.Event, error) {
		return &challengedb.Event{ID: id, Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}, nil
	}
	var got time.Time
	repo.RedateEventFunc = func(ctx context.Context, db bun.IDB, id int64, date time.Time) error {
		got = date
		return nil
	}
	svc, audit, _ := newTestService(repo)

	require.NoError(t, svc.RedateEvent(context.Background(), 1, "04/05/2024"))
	assert.Equal(t, time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC), got)
	require.Len(t, audit.Entries, 1)
	assert.Equal(t, map[string]string{"date": "2024-05-04"}, audit.Entries[0].After)

	err := svc.RedateEvent(context.Background(), 1, "zzz")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestRenameEvent_RejectsEmpty(t *testing.T) {
	repo := NewFakeChallengeRepo()
	svc, _, _ := newTestService(repo)

	err := svc.RenameEvent(context.Background(), 1, "   ")
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.Empty(t, repo.Trace())
}

func TestFixAberrantResults(t *testing.T) {
	repo := NewFakeChallengeRepo()
	repo.AberrantResultsFunc = func(ctx context.Context, db bun.IDB, maxPoints int) ([]challengedb.ResultView, error) {
		assert.Equal(t, 35, maxPoints)
		return []challengedb.ResultView{
			{ResultID: 1, Rank: 1, Points: 70},
			{ResultID: 2, Rank: 8, Points: 40},
		}, nil
	}
	fixes := map[int64]int{}
	repo.UpdateResultPointsFunc = func(ctx context.Context, db bun.IDB, id int64, points int) error {
		fixes[id] = points
		return nil
	}
	svc, audit, _ := newTestService(repo)

	n, err := svc.FixAberrantResults(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, map[int64]int{1: 35, 2: 23}, fixes)
	assert.Len(t, audit.Entries, 2)
}

func TestCleanInvalidParticipants(t *testing.T) {
	repo := NewFakeChallengeRepo()
	repo.InvalidParticipantsFunc = func(ctx context.Context, db bun.IDB) ([]challengedb.InvalidParticipant, error) {
		return []challengedb.InvalidParticipant{{ID: 4}, {ID: 9}}, nil
	}
	var deleted []int64
	repo.DeleteParticipantsFunc = func(ctx context.Context, db bun.IDB, ids []int64) (int, error) {
		deleted = ids
		return len(ids), nil
	}
	svc, _, _ := newTestService(repo)

	n, err := svc.CleanInvalidParticipants(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int64{4, 9}, deleted)
}

func TestAuditFailureDoesNotFailOperation(t *testing.T) {
	repo := NewFakeChallengeRepo()
	repo.GetResultFunc = func(ctx context.Context, db bun.IDB, id int64) (*challengedb.ResultView, error) {
		return &challengedb.ResultView{ResultID: id, Points: 10}, nil
	}
	svc, audit, _ := newTestService(repo)
	audit.Err = errors.New("audit table locked")

	assert.NoError(t, svc.DeleteResult(context.Background(), 3))
}

func TestRepositoryErrorIsWrapped(t *testing.T) {
	boom := errors.New("connection refused")
	repo := NewFakeChallengeRepo()
	repo.ListChallengesFunc = func(ctx context.Context, db bun.IDB) ([]challengedb.Challenge, error) {
		return nil, boom
	}
	svc, _, _ := newTestService(repo)

	_, err := svc.ListChallenges(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "ListChallenges")
}

func TestMoveEvent(t *testing.T) {
	from, to := int64(1), int64(2)

	t.Run("moves and notifies both seasons", func(t *testing.T) {
		repo := NewFakeChallengeRepo()
		repo.GetEventFunc = func(ctx context.Context, db bun.IDB, id int64) (*challengedb.Event, error) {
			return &challengedb.Event{ID: id, ChallengeID: &from}, nil
		}
		repo.GetChallengeFunc = func(ctx context.Context, db bun.IDB, id int64) (*challengedb.Challenge, error) {
			return &challengedb.Challenge{ID: id}, nil
		}
		svc, audit, pub := newTestService(repo)

		require.NoError(t, svc.MoveEvent(context.Background(), 7, &to))
		assert.Equal(t, []string{"GetEvent", "GetChallenge", "MoveEvent"}, repo.Trace())
		require.Len(t, audit.Entries, 1)
		assert.Equal(t, auditservice.ActionUpdate, audit.Entries[0].Action)
		assert.Len(t, pub.Messages, 2)
	})

	t.Run("same season is a no-op", func(t *testing.T) {
		repo := NewFakeChallengeRepo()
		repo.GetEventFunc = func(ctx context.Context, db bun.IDB, id int64) (*challengedb.Event, error) {
			return &challengedb.Event{ID: id, ChallengeID: &from}, nil
		}
		svc, audit, _ := newTestService(repo)

		same := from
		require.NoError(t, svc.MoveEvent(context.Background(), 7, &same))
		assert.Equal(t, []string{"GetEvent"}, repo.Trace())
		assert.Empty(t, audit.Entries)
	})

	t.Run("unknown season", func(t *testing.T) {
		repo := NewFakeChallengeRepo()
		repo.GetEventFunc = func(ctx context.Context, db bun.IDB, id int64) (*challengedb.Event, error) {
			return &challengedb.Event{ID: id}, nil
		}
		svc, _, _ := newTestService(repo)

		err := svc.MoveEvent(context.Background(), 7, &to)
		assert.ErrorIs(t, err, challengedb.ErrNotFound)
	})
}

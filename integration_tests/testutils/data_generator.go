package testutils

import (
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	importdomain "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/domain"
	"github.com/Black-And-White-Club/raid-challenge/app/modules/normalize"
)

// Team is one finishing row of a generated raid.
type Team struct {
	Rank     int
	Members  [2]Runner
	Category string
}

// Runner is a generated participant.
type Runner struct {
	Given  string
	Family string
}

// FullName is the name the importer stores for the runner.
func (r Runner) FullName() string {
	return normalize.FullName(r.Given, r.Family)
}

// TestDataGenerator produces raid rosters for integration tests.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
	used  map[string]struct{}
}

// NewTestDataGenerator creates a new test data generator with optional seed
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}

	return &TestDataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
		used:  make(map[string]struct{}),
	}
}

// Seed returns the seed the generator was built with.
func (g *TestDataGenerator) Seed() int64 { return g.seed }

// GenerateRunner returns a runner whose full name is unique for this
// generator.
func (g *TestDataGenerator) GenerateRunner() Runner {
	for {
		r := Runner{
			Given:  g.faker.FirstName(),
			Family: g.faker.LastName() + strconv.Itoa(len(g.used)+1),
		}
		if _, taken := g.used[r.FullName()]; taken {
			continue
		}
		g.used[r.FullName()] = struct{}{}
		return r
	}
}

// GenerateTeams builds count two-runner teams ranked 1..count with a random
// category each.
func (g *TestDataGenerator) GenerateTeams(count int) []Team {
	categories := normalize.ReportOrder
	teams := make([]Team, count)
	for i := range teams {
		teams[i] = Team{
			Rank:     i + 1,
			Members:  [2]Runner{g.GenerateRunner(), g.GenerateRunner()},
			Category: categories[g.faker.Number(0, len(categories)-1)],
		}
	}
	return teams
}

// TeamColumns is the header of tables built by TeamsTable.
var TeamColumns = []string{"Place", "Prenom1", "Nom1", "Prenom2", "Nom2", "Categorie"}

// TeamsTable lays teams out the way a timing export would.
func TeamsTable(teams []Team) importdomain.Table {
	t := importdomain.Table{Columns: TeamColumns}
	for i, team := range teams {
		raw := []string{
			strconv.Itoa(team.Rank),
			team.Members[0].Given, team.Members[0].Family,
			team.Members[1].Given, team.Members[1].Family,
			team.Category,
		}
		values := make(map[string]importdomain.Cell, len(raw))
		for j, col := range TeamColumns {
			values[col] = importdomain.Cell{Raw: raw[j], Present: raw[j] != ""}
		}
		t.Rows = append(t.Rows, importdomain.Row{ID: importdomain.RowID(i + 1), Values: values})
	}
	return t
}

// TeamMembers is the member mapping matching TeamColumns.
func TeamMembers() []importdomain.MemberSpec {
	return []importdomain.MemberSpec{
		{Mode: "split", Given: "Prenom1", Family: "Nom1"},
		{Mode: "split", Given: "Prenom2", Family: "Nom2"},
	}
}

package stanleycup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hockeystats-backend/lib/rowspan"
	"hockeystats-backend/lib/stanleycup/db"
	"hockeystats-backend/lib/telemetry"
	"hockeystats-backend/lib/textutil"
	"slices"

	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("hockeystats.lib.stanleycup")

var ErrNotFound = errors.New("no record for that year")

// Store persists records in the stanley_cup table, keyed by year with
// insert-or-ignore semantics.
type Store struct {
	qry    *db.Queries
	makeTx db.MakeTx
}

func NewStore(database *sql.DB) Store {
	return Store{
		qry:    db.New(database),
		makeTx: db.NewMakeTx(database),
	}
}

// Init creates the table if it does not exist yet.
func (s Store) Init(ctx context.Context) error {
	return s.qry.CreateTable(ctx)
}

func toRow(r rowspan.Record) db.StanleyCup {
	return db.StanleyCup{
		Year:         r.Year,
		WinningTeam:  r.WinningTeam,
		WinningCoach: r.WinningCoach,
		LosingTeam:   r.LosingTeam,
		LosingCoach:  r.LosingCoach,
	}
}

func fromRow(r db.StanleyCup) rowspan.Record {
	return rowspan.Record{
		Year:         r.Year,
		WinningTeam:  r.WinningTeam,
		WinningCoach: r.WinningCoach,
		LosingTeam:   r.LosingTeam,
		LosingCoach:  r.LosingCoach,
	}
}

func (s Store) write(ctx context.Context, records []rowspan.Record, reset bool) (int, error) {
	txqry, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		return 0, err
	}
	defer discard()

	if reset {
		err = txqry.DropTable(ctx)
		if err != nil {
			return 0, fmt.Errorf("drop table: %w", err)
		}
	}
	err = txqry.CreateTable(ctx)
	if err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}

	inserted := 0
	for _, r := range records {
		n, err := txqry.InsertOrIgnore(ctx, toRow(r))
		if err != nil {
			return 0, fmt.Errorf("insert year %q: %w", r.Year.String, err)
		}
		inserted += int(n)
	}

	return inserted, commit()
}

// Replace drops whatever was stored before and writes records in a single
// transaction. It returns how many records were actually inserted, later
// duplicates of a year are ignored.
func (s Store) Replace(ctx context.Context, records []rowspan.Record) (int, error) {
	ctx, span := tracer.Start(ctx, "store:Replace")
	defer span.End()

	inserted, err := s.write(ctx, records, true)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	span.SetAttributes(attribute.Int("inserted", inserted))
	return inserted, nil
}

// Append writes records, keeping what was already stored.
func (s Store) Append(ctx context.Context, records []rowspan.Record) (int, error) {
	ctx, span := tracer.Start(ctx, "store:Append")
	defer span.End()

	inserted, err := s.write(ctx, records, false)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	span.SetAttributes(attribute.Int("inserted", inserted))
	return inserted, nil
}

func (s Store) List(ctx context.Context) ([]rowspan.Record, error) {
	rows, err := s.qry.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]rowspan.Record, len(rows))
	for i, r := range rows {
		records[i] = fromRow(r)
	}
	return records, nil
}

func (s Store) Get(ctx context.Context, year string) (rowspan.Record, error) {
	row, err := s.qry.GetByYear(ctx, year)
	if errors.Is(err, sql.ErrNoRows) {
		return rowspan.Record{}, fmt.Errorf("%w: %s", ErrNotFound, year)
	}
	if err != nil {
		return rowspan.Record{}, err
	}
	return fromRow(row), nil
}

func (s Store) Count(ctx context.Context) (int64, error) {
	return s.qry.Count(ctx)
}

type Match struct {
	Record rowspan.Record
	// Score is the best similarity between the query and either team.
	Score float64
	// Won is true when the winning team was the better match.
	Won bool
}

func similarity(query, team string) float64 {
	if textutil.MatchName(team, []string{query}) {
		return 1
	}
	team = textutil.NormalizeName(team)
	if team == "" {
		return 0
	}
	return matchr.JaroWinkler(query, team, false)
}

// FindByTeam returns every record where either team is similar enough to
// name, best matches first.
func (s Store) FindByTeam(ctx context.Context, name string, threshold float64) ([]Match, error) {
	ctx, span := tracer.Start(ctx, "store:FindByTeam")
	defer span.End()

	query := textutil.NormalizeName(name)
	if query == "" {
		return nil, fmt.Errorf("empty team name")
	}

	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, r := range records {
		won := similarity(query, r.WinningTeam.String)
		lost := similarity(query, r.LosingTeam.String)
		m := Match{Record: r, Score: won, Won: true}
		if lost > won {
			m.Score = lost
			m.Won = false
		}
		if m.Score >= threshold {
			matches = append(matches, m)
		}
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})
	span.SetAttributes(attribute.Int("matches", len(matches)))
	return matches, nil
}

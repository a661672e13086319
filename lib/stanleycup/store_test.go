package stanleycup

import (
	"context"
	"errors"
	"hockeystats-backend/lib/rowspan"
	"hockeystats-backend/lib/stanleycup/db"
	"hockeystats-backend/lib/testutil"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func record(year, winningTeam, winningCoach, losingTeam, losingCoach string) rowspan.Record {
	return rowspan.Record{
		Year:         rowspan.Str(year),
		WinningTeam:  rowspan.Str(winningTeam),
		WinningCoach: rowspan.Str(winningCoach),
		LosingTeam:   rowspan.Str(losingTeam),
		LosingCoach:  rowspan.Str(losingCoach),
	}
}

var fixtureRecords = []rowspan.Record{
	record("1993", "Montreal Canadiens", "Jacques Demers", "Los Angeles Kings", "Barry Melrose"),
	record("1994", "New York Rangers", "Mike Keenan", "Vancouver Canucks", "Pat Quinn"),
	record("1995", "New Jersey Devils", "Jacques Lemaire", "Detroit Red Wings", "Scotty Bowman"),
	record("1996", "Colorado Avalanche", "Marc Crawford", "Florida Panthers", "Doug MacLean"),
	record("1997", "Detroit Red Wings", "Scotty Bowman", "Philadelphia Flyers", "Terry Murray"),
}

func newStore(t testing.TB) Store {
	res := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "stanleycup",
		DbSchema: db.Schema,
	})
	return NewStore(res.DB)
}

func TestStoreReplace(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	inserted, err := store.Replace(ctx, fixtureRecords)
	require.NoError(t, err)
	require.Equal(t, len(fixtureRecords), inserted)

	// replacing again starts from an empty table
	inserted, err = store.Replace(ctx, fixtureRecords[:2])
	require.NoError(t, err)
	require.Equal(t, 2, inserted)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func TestStoreInsertOrIgnore(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	duplicate := record("1993", "Someone Else", "", "", "")
	inserted, err := store.Replace(ctx, append(append([]rowspan.Record{}, fixtureRecords...), duplicate))
	require.NoError(t, err)
	require.Equal(t, len(fixtureRecords), inserted)

	got, err := store.Get(ctx, "1993")
	require.NoError(t, err)
	require.Equal(t, fixtureRecords[0], got)

	inserted, err = store.Append(ctx, []rowspan.Record{
		fixtureRecords[1],
		record("1998", "Detroit Red Wings", "Scotty Bowman", "Washington Capitals", "Ron Wilson"),
	})
	require.NoError(t, err)
	require.Equal(t, 1, inserted)
}

func TestStoreNulls(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	short := rowspan.Record{
		Year:        rowspan.Str("2007"),
		WinningTeam: rowspan.Str("Anaheim Ducks"),
	}
	_, err := store.Replace(ctx, []rowspan.Record{short})
	require.NoError(t, err)

	got, err := store.Get(ctx, "2007")
	require.NoError(t, err)
	require.Equal(t, short, got)
	require.False(t, got.LosingCoach.Valid)
}

func TestStoreList(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	reversed := make([]rowspan.Record, len(fixtureRecords))
	for i, r := range fixtureRecords {
		reversed[len(fixtureRecords)-1-i] = r
	}
	_, err := store.Replace(ctx, reversed)
	require.NoError(t, err)

	got, err := store.List(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(fixtureRecords, got); diff != "" {
		t.Fatalf("list mismatch (-expected +got):\n%s", diff)
	}

	_, err = store.Get(ctx, "2005")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestStoreFindByTeam(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	_, err := store.Replace(ctx, fixtureRecords)
	require.NoError(t, err)

	matches, err := store.FindByTeam(ctx, "red wings", 0.9)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	years := []string{matches[0].Record.Year.String, matches[1].Record.Year.String}
	require.ElementsMatch(t, []string{"1995", "1997"}, years)
	for _, m := range matches {
		require.Equal(t, 1.0, m.Score)
		require.Equal(t, m.Record.Year.String == "1997", m.Won)
	}

	matches, err = store.FindByTeam(ctx, "Colorado Avalanch", 0.9)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	require.Equal(t, "1996", matches[0].Record.Year.String)

	_, err = store.FindByTeam(ctx, "   ", 0.9)
	require.Error(t, err)
}

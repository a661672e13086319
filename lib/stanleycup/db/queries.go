package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type StanleyCup struct {
	Year         sql.NullString
	WinningTeam  sql.NullString
	WinningCoach sql.NullString
	LosingTeam   sql.NullString
	LosingCoach  sql.NullString
}

const dropTable = `drop table if exists stanley_cup`

func (q *Queries) DropTable(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, dropTable)
	return err
}

func (q *Queries) CreateTable(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, Schema)
	return err
}

const insertOrIgnore = `insert or ignore into stanley_cup (
    year, winning_team, winning_coach, losing_team, losing_coach
) values (?, ?, ?, ?, ?)`

// InsertOrIgnore returns the number of rows inserted, 0 means a row with the
// same year already existed.
func (q *Queries) InsertOrIgnore(ctx context.Context, arg StanleyCup) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertOrIgnore,
		arg.Year,
		arg.WinningTeam,
		arg.WinningCoach,
		arg.LosingTeam,
		arg.LosingCoach,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listAll = `select year, winning_team, winning_coach, losing_team, losing_coach
from stanley_cup
order by year`

func (q *Queries) ListAll(ctx context.Context) ([]StanleyCup, error) {
	rows, err := q.db.QueryContext(ctx, listAll)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []StanleyCup
	for rows.Next() {
		var i StanleyCup
		err := rows.Scan(
			&i.Year,
			&i.WinningTeam,
			&i.WinningCoach,
			&i.LosingTeam,
			&i.LosingCoach,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getByYear = `select year, winning_team, winning_coach, losing_team, losing_coach
from stanley_cup
where year = ?`

func (q *Queries) GetByYear(ctx context.Context, year string) (StanleyCup, error) {
	row := q.db.QueryRowContext(ctx, getByYear, year)
	var i StanleyCup
	err := row.Scan(
		&i.Year,
		&i.WinningTeam,
		&i.WinningCoach,
		&i.LosingTeam,
		&i.LosingCoach,
	)
	return i, err
}

const countRows = `select count(*) from stanley_cup`

func (q *Queries) Count(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countRows)
	var count int64
	err := row.Scan(&count)
	return count, err
}

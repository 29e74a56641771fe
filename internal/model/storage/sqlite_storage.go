package storage

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/costs-service/internal/entity/cost"
	"max.ks1230/costs-service/internal/entity/user"
	"max.ks1230/costs-service/internal/logger"
	"max.ks1230/costs-service/internal/model/customerr"

	// sqlite driver
	_ "modernc.org/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		birthday DATETIME,
		marital_status TEXT,
		total_cost REAL NOT NULL DEFAULT 0,
		updated_at DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS costs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		description TEXT NOT NULL,
		category TEXT NOT NULL CHECK (category IN ('food', 'health', 'housing', 'sport', 'education')),
		userid TEXT NOT NULL,
		sum REAL NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS costs_userid_created_at ON costs (userid, created_at)`,
}

type sqliteConfig interface {
	Path() string
}

type SqliteStorage struct {
	db *sql.DB
}

func NewSqliteStorage(config sqliteConfig) (*SqliteStorage, error) {
	db, err := sql.Open("sqlite", config.Path())
	if err != nil {
		return nil, errors.Wrap(err, "cannot open database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "cannot open database")
	}
	for _, stmt := range schema {
		if _, err = db.Exec(stmt); err != nil {
			return nil, errors.Wrap(err, "cannot bootstrap schema")
		}
	}
	return &SqliteStorage{db}, nil
}

func (s *SqliteStorage) GetUserByID(ctx context.Context, id string) (user.User, error) {
	query := sq.Select("id", "first_name", "last_name", "birthday", "marital_status", "total_cost").
		From("users").
		Where(sq.Eq{"id": id})

	var res user.User
	var birthday sql.NullTime
	var marital sql.NullString
	err := query.RunWith(s.db).QueryRowContext(ctx).
		Scan(&res.ID, &res.FirstName, &res.LastName, &birthday, &marital, &res.TotalCost)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, &customerr.NotFoundError{Err: "user not found"}
	}
	if err != nil {
		return user.User{}, &customerr.StoreError{Err: "get user", Cause: err}
	}
	if birthday.Valid {
		b := birthday.Time
		res.Birthday = &b
	}
	res.MaritalStatus = marital.String
	return res, nil
}

func (s *SqliteStorage) SaveUser(ctx context.Context, u user.User) error {
	query := sq.Insert("users").
		Columns("id", "first_name", "last_name", "birthday", "marital_status", "total_cost", "updated_at").
		Values(u.ID, u.FirstName, u.LastName, u.Birthday, u.MaritalStatus, u.TotalCost, time.Now().UTC()).
		Suffix("ON CONFLICT(id) DO UPDATE SET first_name = ?, last_name = ?, updated_at = ?",
			u.FirstName, u.LastName, time.Now().UTC())

	_, err := query.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return &customerr.StoreError{Err: "save user", Cause: err}
	}
	return nil
}

func (s *SqliteStorage) SaveCost(ctx context.Context, c cost.Cost) (cost.Cost, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return cost.Cost{}, &customerr.StoreError{Err: "save cost", Cause: err}
	}
	defer func() {
		txErr := tx.Rollback()
		if txErr != nil && !errors.Is(txErr, sql.ErrTxDone) {
			logger.Error("error when transaction rollback", zap.Error(txErr))
		}
	}()

	insert := sq.Insert("costs").
		Columns("description", "category", "userid", "sum", "created_at").
		Values(c.Description, c.Category, c.UserID, c.Sum, c.CreatedAt.UTC())

	res, err := insert.RunWith(tx).ExecContext(ctx)
	if err != nil {
		return cost.Cost{}, &customerr.StoreError{Err: "save cost", Cause: err}
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return cost.Cost{}, &customerr.StoreError{Err: "save cost", Cause: err}
	}

	update := sq.Update("users").
		Set("total_cost", sq.Expr("total_cost + ?", c.Sum)).
		Where(sq.Eq{"id": c.UserID})

	res, err = update.RunWith(tx).ExecContext(ctx)
	if err != nil {
		return cost.Cost{}, &customerr.StoreError{Err: "update user total", Cause: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return cost.Cost{}, &customerr.StoreError{Err: "update user total", Cause: err}
	}
	if affected == 0 {
		return cost.Cost{}, &customerr.NotFoundError{Err: "user not found"}
	}

	if err = tx.Commit(); err != nil {
		return cost.Cost{}, &customerr.StoreError{Err: "save cost", Cause: err}
	}
	return c, nil
}

func (s *SqliteStorage) GetUserCostsBetween(ctx context.Context, userID string, from, to time.Time) ([]cost.Cost, error) {
	query := sq.Select("id", "description", "category", "userid", "sum", "created_at").
		From("costs").
		Where(sq.Eq{"userid": userID}).
		Where(sq.GtOrEq{"created_at": from.UTC()}).
		Where(sq.LtOrEq{"created_at": to.UTC()}).
		OrderBy("id")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, &customerr.StoreError{Err: "get costs", Cause: err}
	}
	defer func() {
		rowErr := rows.Close()
		if rowErr != nil {
			logger.Error("error closing rows", zap.Error(rowErr))
		}
	}()

	res := make([]cost.Cost, 0)
	for rows.Next() {
		var c cost.Cost
		err = rows.Scan(&c.ID, &c.Description, &c.Category, &c.UserID, &c.Sum, &c.CreatedAt)
		if err != nil {
			return nil, &customerr.StoreError{Err: "get costs", Cause: err}
		}
		res = append(res, c)
	}
	if err = rows.Err(); err != nil {
		return nil, &customerr.StoreError{Err: "get costs", Cause: err}
	}

	return res, nil
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	// postgres driver
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/costs-service/internal/entity/cost"
	"max.ks1230/costs-service/internal/entity/user"
	"max.ks1230/costs-service/internal/logger"
	"max.ks1230/costs-service/internal/model/customerr"
)

const dsnTemplate = "user=%s password=%s host=%s dbname=%s sslmode=disable"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type postgresConfig interface {
	Host() string
	Username() string
	Password() string
	Database() string
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config postgresConfig) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", fmt.Sprintf(dsnTemplate,
		config.Username(),
		config.Password(),
		config.Host(),
		config.Database()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	return &PostgresStorage{db}, nil
}

func (s *PostgresStorage) GetUserByID(ctx context.Context, id string) (user.User, error) {
	query := psql.Select("id", "first_name", "last_name", "birthday", "marital_status", "total_cost").
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

func (s *PostgresStorage) SaveUser(ctx context.Context, u user.User) error {
	query := psql.Insert("users").
		Columns("id", "first_name", "last_name", "birthday", "marital_status", "total_cost", "updated_at").
		Values(u.ID, u.FirstName, u.LastName, u.Birthday, u.MaritalStatus, u.TotalCost, time.Now()).
		Suffix("ON CONFLICT(id) DO UPDATE SET first_name = ?, last_name = ?, updated_at = ?",
			u.FirstName, u.LastName, time.Now())

	_, err := query.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return &customerr.StoreError{Err: "save user", Cause: err}
	}
	return nil
}

// SaveCost inserts the cost and reflects its sum into the owning user's
// running total in a single transaction. The total update is an in-place
// increment, so concurrent adds for one user cannot lose updates.
func (s *PostgresStorage) SaveCost(ctx context.Context, c cost.Cost) (cost.Cost, error) {
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

	insert := psql.Insert("costs").
		Columns("description", "category", "userid", "sum", "created_at").
		Values(c.Description, c.Category, c.UserID, c.Sum, c.CreatedAt.UTC()).
		Suffix("RETURNING id")

	err = insert.RunWith(tx).QueryRowContext(ctx).Scan(&c.ID)
	if err != nil {
		return cost.Cost{}, &customerr.StoreError{Err: "save cost", Cause: err}
	}

	update := psql.Update("users").
		Set("total_cost", sq.Expr("total_cost + ?", c.Sum)).
		Where(sq.Eq{"id": c.UserID})

	res, err := update.RunWith(tx).ExecContext(ctx)
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

func (s *PostgresStorage) GetUserCostsBetween(ctx context.Context, userID string, from, to time.Time) ([]cost.Cost, error) {
	query := psql.Select("id", "description", "category", "userid", "sum", "created_at").
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

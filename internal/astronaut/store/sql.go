package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"stargate/internal/astronaut/models"
	"stargate/internal/platform/database"
	dErrors "stargate/pkg/domain-errors"
	"stargate/pkg/platform/sentinel"
	"stargate/pkg/platform/strings"
	"stargate/pkg/platform/tx"
)

const defaultTxTimeout = 5 * time.Second

// SQLStore persists the ledger in PostgreSQL or SQLite. Inside RunInTx every
// method runs on the transaction carried by ctx.
type SQLStore struct {
	db        *database.DB
	txTimeout time.Duration
}

// NewSQL wraps an open, migrated database. A zero txTimeout uses 5s.
func NewSQL(db *database.DB, txTimeout time.Duration) *SQLStore {
	if txTimeout <= 0 {
		txTimeout = defaultTxTimeout
	}
	return &SQLStore{db: db, txTimeout: txTimeout}
}

// RunInTx runs fn in one database transaction at the dialect's write isolation
// level. The transaction gets the store timeout unless ctx already has a deadline.
func (s *SQLStore) RunInTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}

	sqlTx, err := s.db.BeginTx(ctx, s.db.Dialect.TxOptions())
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(tx.WithTx(ctx, sqlTx), s); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) conn(ctx context.Context) tx.Conn {
	return tx.ConnFrom(ctx, s.db.DB)
}

func (s *SQLStore) q(query string) string {
	return s.db.Dialect.Rebind(query)
}

func (s *SQLStore) CreatePerson(ctx context.Context, person *models.Person) error {
	err := s.conn(ctx).QueryRowContext(ctx,
		s.q(`INSERT INTO people (name, name_key, created_at) VALUES (?, ?, ?) RETURNING id`),
		person.Name, person.NameKey, database.FormatTimestamp(person.CreatedAt),
	).Scan(&person.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (s *SQLStore) FindPersonByName(ctx context.Context, name string) (*models.Person, error) {
	row := s.conn(ctx).QueryRowContext(ctx,
		s.q(`SELECT id, name, name_key, created_at FROM people WHERE name_key = ?`), strings.FoldKey(name))
	return scanPerson(row)
}

func (s *SQLStore) FindPersonByID(ctx context.Context, id int64) (*models.Person, error) {
	row := s.conn(ctx).QueryRowContext(ctx,
		s.q(`SELECT id, name, name_key, created_at FROM people WHERE id = ?`), id)
	return scanPerson(row)
}

func (s *SQLStore) ListPeople(ctx context.Context) ([]*models.Person, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `SELECT id, name, name_key, created_at FROM people ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	var out []*models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list people: iterate: %w", err)
	}
	return out, nil
}

func (s *SQLStore) FindDetail(ctx context.Context, personID int64) (*models.AstronautDetail, error) {
	row := s.conn(ctx).QueryRowContext(ctx,
		s.q(`SELECT id, person_id, career_start_date, career_end_date FROM astronaut_details WHERE person_id = ?`), personID)
	return scanDetail(row)
}

func (s *SQLStore) ListDetails(ctx context.Context) ([]*models.AstronautDetail, error) {
	rows, err := s.conn(ctx).QueryContext(ctx,
		`SELECT id, person_id, career_start_date, career_end_date FROM astronaut_details ORDER BY person_id`)
	if err != nil {
		return nil, fmt.Errorf("list details: %w", err)
	}
	defer rows.Close()

	var out []*models.AstronautDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list details: iterate: %w", err)
	}
	return out, nil
}

// SaveDetail inserts when detail.ID is zero, otherwise updates the career dates.
func (s *SQLStore) SaveDetail(ctx context.Context, detail *models.AstronautDetail) error {
	if detail.ID == 0 {
		err := s.conn(ctx).QueryRowContext(ctx,
			s.q(`INSERT INTO astronaut_details (person_id, career_start_date, career_end_date) VALUES (?, ?, ?) RETURNING id`),
			detail.PersonID, database.FormatDate(detail.CareerStartDate), database.FormatNullDate(detail.CareerEndDate),
		).Scan(&detail.ID)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("insert detail: person %d already has a summary: %w", detail.PersonID, sentinel.ErrInconsistent)
			}
			return fmt.Errorf("insert detail: %w", err)
		}
		return nil
	}

	res, err := s.conn(ctx).ExecContext(ctx,
		s.q(`UPDATE astronaut_details SET career_start_date = ?, career_end_date = ? WHERE id = ?`),
		database.FormatDate(detail.CareerStartDate), database.FormatNullDate(detail.CareerEndDate), detail.ID)
	if err != nil {
		return fmt.Errorf("update detail: %w", err)
	}
	return requireOneRow(res, "update detail")
}

func (s *SQLStore) ListDutiesByPerson(ctx context.Context, personID int64) ([]*models.AstronautDuty, error) {
	return s.queryDuties(ctx, "list duties",
		`SELECT id, person_id, rank, duty_title, duty_start_date, duty_end_date
		   FROM astronaut_duties WHERE person_id = ? ORDER BY duty_start_date`, personID)
}

func (s *SQLStore) ListDutiesActiveOn(ctx context.Context, day time.Time) ([]*models.AstronautDuty, error) {
	d := database.FormatDate(day)
	return s.queryDuties(ctx, "list active duties",
		`SELECT id, person_id, rank, duty_title, duty_start_date, duty_end_date
		   FROM astronaut_duties
		  WHERE duty_start_date <= ? AND (duty_end_date IS NULL OR duty_end_date >= ?)
		  ORDER BY person_id, duty_start_date`, d, d)
}

func (s *SQLStore) CreateDuty(ctx context.Context, duty *models.AstronautDuty) error {
	err := s.conn(ctx).QueryRowContext(ctx,
		s.q(`INSERT INTO astronaut_duties (person_id, rank, duty_title, duty_start_date, duty_end_date)
		     VALUES (?, ?, ?, ?, ?) RETURNING id`),
		duty.PersonID, duty.Rank, duty.DutyTitle,
		database.FormatDate(duty.DutyStartDate), database.FormatNullDate(duty.DutyEndDate),
	).Scan(&duty.ID)
	if err != nil {
		return dutyWriteError("insert duty", err)
	}
	return nil
}

func (s *SQLStore) SetDutyEndDate(ctx context.Context, dutyID int64, end *time.Time) error {
	res, err := s.conn(ctx).ExecContext(ctx,
		s.q(`UPDATE astronaut_duties SET duty_end_date = ? WHERE id = ?`), database.FormatNullDate(end), dutyID)
	if err != nil {
		return dutyWriteError("update duty end date", err)
	}
	return requireOneRow(res, "update duty end date")
}

// dutyStartKeys name the (person_id, duty_start_date) key as each driver reports it.
var dutyStartKeys = []string{
	"astronaut_duties_person_start_unique",
	"astronaut_duties.person_id, astronaut_duties.duty_start_date",
}

// dutyWriteError classifies constraint failures on astronaut_duties. A taken start
// date is ErrAlreadyUsed; a second open duty or an end before the start means the
// plan was built from rows that no longer match storage.
func dutyWriteError(op string, err error) error {
	if key, ok := database.UniqueViolation(err); ok {
		if slices.Contains(dutyStartKeys, key) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("%s: unique %q: %w", op, key, sentinel.ErrInconsistent)
	}
	if database.IsCheckViolation(err) {
		return fmt.Errorf("%s: end date before start: %w", op, sentinel.ErrInconsistent)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *SQLStore) queryDuties(ctx context.Context, op, query string, args ...any) ([]*models.AstronautDuty, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []*models.AstronautDuty
	for rows.Next() {
		var (
			d          models.AstronautDuty
			start, end database.NullTime
		)
		if err := rows.Scan(&d.ID, &d.PersonID, &d.Rank, &d.DutyTitle, &start, &end); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		d.DutyStartDate = start.Date()
		d.DutyEndDate = end.DatePtr()
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate: %w", op, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*models.Person, error) {
	var (
		p       models.Person
		created database.NullTime
	)
	if err := row.Scan(&p.ID, &p.Name, &p.NameKey, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan person: %w", err)
	}
	p.CreatedAt = created.Time
	return &p, nil
}

func scanDetail(row rowScanner) (*models.AstronautDetail, error) {
	var (
		d          models.AstronautDetail
		start, end database.NullTime
	)
	if err := row.Scan(&d.ID, &d.PersonID, &start, &end); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan detail: %w", err)
	}
	d.CareerStartDate = start.Date()
	d.CareerEndDate = end.DatePtr()
	return &d, nil
}

func requireOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/hr-analytics-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS applicants (
	id         INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	role       TEXT NOT NULL,
	applied_at TEXT NOT NULL,
	status     TEXT NOT NULL,
	department TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS employees (
	id         INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	department TEXT NOT NULL DEFAULT '',
	salary     REAL NOT NULL DEFAULT 0,
	started_at TEXT NOT NULL,
	ended_at   TEXT
);

CREATE TABLE IF NOT EXISTS employment_types (
	employee_id INTEGER PRIMARY KEY,
	type        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS role_mappings (
	role        TEXT PRIMARY KEY,
	department  TEXT NOT NULL,
	confidence  REAL NOT NULL,
	source      TEXT NOT NULL,
	status      TEXT NOT NULL,
	departments TEXT NOT NULL DEFAULT '[]',
	updated_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	applicants   INTEGER NOT NULL,
	employees    INTEGER NOT NULL,
	links        INTEGER NOT NULL,
	group_errors INTEGER NOT NULL,
	result       TEXT NOT NULL,
	finished_at  DATETIME NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_applicants_status ON applicants(status);
CREATE INDEX IF NOT EXISTS idx_applicants_name ON applicants(name);
CREATE INDEX IF NOT EXISTS idx_employees_name ON employees(name);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const dateLayout = "2006-01-02"

func (s *SQLiteStore) UpsertRecords(ctx context.Context, batch model.Batch) (model.RecordCounts, error) {
	var counts model.RecordCounts

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return counts, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	for _, a := range batch.Applicants {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO applicants (id, name, role, applied_at, status, department) VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, role = excluded.role,
			 applied_at = excluded.applied_at, status = excluded.status, department = excluded.department`,
			a.ID, a.Name, a.Role, a.AppliedAt.Format(dateLayout), string(a.Status), a.Department,
		)
		if err != nil {
			return counts, eris.Wrapf(err, "sqlite: upsert applicant %d", a.ID)
		}
		counts.Applicants++
	}

	for _, e := range batch.Employees {
		var endedAt any
		if e.EndedAt != nil {
			endedAt = e.EndedAt.Format(dateLayout)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO employees (id, name, department, salary, started_at, ended_at) VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, department = excluded.department,
			 salary = excluded.salary, started_at = excluded.started_at, ended_at = excluded.ended_at`,
			e.ID, e.Name, e.Department, e.Salary, e.StartedAt.Format(dateLayout), endedAt,
		)
		if err != nil {
			return counts, eris.Wrapf(err, "sqlite: upsert employee %d", e.ID)
		}
		counts.Employees++
	}

	for _, t := range batch.EmploymentTypes {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO employment_types (employee_id, type) VALUES (?, ?)
			 ON CONFLICT(employee_id) DO UPDATE SET type = excluded.type`,
			t.EmployeeID, t.Type,
		)
		if err != nil {
			return counts, eris.Wrapf(err, "sqlite: upsert employment type %d", t.EmployeeID)
		}
		counts.EmploymentTypes++
	}

	if err := tx.Commit(); err != nil {
		return counts, eris.Wrap(err, "sqlite: commit records")
	}
	return counts, nil
}

// Snapshot reads all source tables inside one transaction so the
// pipeline computes over a consistent view even if a concurrent ingest
// is running.
func (s *SQLiteStore) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin snapshot tx")
	}
	defer tx.Rollback()

	snap := &model.Snapshot{TakenAt: time.Now().UTC()}

	rows, err := tx.QueryContext(ctx,
		`SELECT id, name, role, applied_at, status, department FROM applicants ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query applicants")
	}
	for rows.Next() {
		var (
			a         model.Applicant
			appliedAt string
			status    string
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Role, &appliedAt, &status, &a.Department); err != nil {
			rows.Close()
			return nil, eris.Wrap(err, "sqlite: scan applicant")
		}
		if a.AppliedAt, err = parseStoredDate(appliedAt); err != nil {
			rows.Close()
			return nil, err
		}
		a.Status = model.ApplicationStatus(status)
		snap.Applicants = append(snap.Applicants, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate applicants")
	}

	rows, err = tx.QueryContext(ctx,
		`SELECT id, name, department, salary, started_at, ended_at FROM employees ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query employees")
	}
	for rows.Next() {
		var (
			e         model.Employee
			startedAt string
			endedAt   sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Department, &e.Salary, &startedAt, &endedAt); err != nil {
			rows.Close()
			return nil, eris.Wrap(err, "sqlite: scan employee")
		}
		if e.StartedAt, err = parseStoredDate(startedAt); err != nil {
			rows.Close()
			return nil, err
		}
		if endedAt.Valid {
			t, err := parseStoredDate(endedAt.String)
			if err != nil {
				rows.Close()
				return nil, err
			}
			e.EndedAt = &t
		}
		snap.Employees = append(snap.Employees, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate employees")
	}

	rows, err = tx.QueryContext(ctx,
		`SELECT employee_id, type FROM employment_types ORDER BY employee_id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query employment types")
	}
	for rows.Next() {
		var t model.EmploymentType
		if err := rows.Scan(&t.EmployeeID, &t.Type); err != nil {
			rows.Close()
			return nil, eris.Wrap(err, "sqlite: scan employment type")
		}
		snap.EmploymentTypes = append(snap.EmploymentTypes, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate employment types")
	}

	return snap, eris.Wrap(tx.Commit(), "sqlite: commit snapshot")
}

func (s *SQLiteStore) Mappings(ctx context.Context) ([]model.RoleMapping, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, department, confidence, source, status, departments, updated_at FROM role_mappings ORDER BY role`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query mappings")
	}
	defer rows.Close()

	var mappings []model.RoleMapping
	for rows.Next() {
		var (
			m         model.RoleMapping
			status    string
			deptsJSON string
		)
		if err := rows.Scan(&m.Role, &m.Department, &m.Confidence, &m.Source, &status, &deptsJSON, &m.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan mapping")
		}
		m.Status = model.MappingStatus(status)
		if err := json.Unmarshal([]byte(deptsJSON), &m.Departments); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal departments for %s", m.Role)
		}
		mappings = append(mappings, m)
	}
	return mappings, eris.Wrap(rows.Err(), "sqlite: iterate mappings")
}

func (s *SQLiteStore) SaveMappings(ctx context.Context, mappings []model.RoleMapping) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin mappings tx")
	}
	defer tx.Rollback()

	for _, m := range mappings {
		deptsJSON, err := json.Marshal(m.Departments)
		if err != nil {
			return eris.Wrapf(err, "sqlite: marshal departments for %s", m.Role)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO role_mappings (role, department, confidence, source, status, departments, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(role) DO UPDATE SET department = excluded.department,
			 confidence = excluded.confidence, source = excluded.source, status = excluded.status,
			 departments = excluded.departments, updated_at = excluded.updated_at`,
			m.Role, m.Department, m.Confidence, m.Source, string(m.Status), string(deptsJSON), m.UpdatedAt,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: upsert mapping %s", m.Role)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit mappings")
}

func (s *SQLiteStore) PublishRun(ctx context.Context, result *model.RunResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal run result")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, applicants, employees, links, group_errors, result, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.Counts.Applicants, result.Counts.Employees,
		len(result.Links), len(result.GroupErrors), string(resultJSON), result.FinishedAt,
	)
	return eris.Wrapf(err, "sqlite: publish run %s", result.ID)
}

func (s *SQLiteStore) LatestRun(ctx context.Context) (*model.RunResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT result FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`)

	var resultJSON string
	err := row.Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: latest run")
	}

	var result model.RunResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal run result")
	}
	return &result, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, applicants, employees, links, group_errors, finished_at
		 FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var summaries []model.RunSummary
	for rows.Next() {
		var s model.RunSummary
		if err := rows.Scan(&s.ID, &s.Applicants, &s.Employees, &s.Links, &s.GroupErrors, &s.FinishedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run summary")
		}
		summaries = append(summaries, s)
	}
	return summaries, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

func parseStoredDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "sqlite: parse stored date %q", s)
	}
	return t, nil
}

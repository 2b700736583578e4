package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/hr-analytics-cli/internal/db"
	"github.com/sells-group/hr-analytics-cli/internal/model"
)

// PostgresStore implements Store on top of a pgx connection pool.
type PostgresStore struct {
	pool db.Pool
}

// Statements prepared on every pooled connection. Bulk ingest goes
// through db.BulkUpsert instead and is not listed here.
var preparedStatements = map[string]string{
	"select_applicants": `SELECT id, name, role, applied_at, status, department FROM applicants ORDER BY id`,
	"select_employees":  `SELECT id, name, department, salary, started_at, ended_at FROM employees ORDER BY id`,
	"select_types":      `SELECT employee_id, type FROM employment_types ORDER BY employee_id`,
	"select_mappings":   `SELECT role, department, confidence, source, status, departments, updated_at FROM role_mappings ORDER BY role`,
	"insert_run": `INSERT INTO runs (id, applicants, employees, links, group_errors, result, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	"latest_run": `SELECT result FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`,
	"list_runs": `SELECT id, applicants, employees, links, group_errors, finished_at
		FROM runs ORDER BY created_at DESC, id DESC LIMIT $1`,
}

// NewPostgres connects to the database and prepares the statement set
// on every connection the pool hands out.
func NewPostgres(ctx context.Context, databaseURL string, maxConns int32) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests with a mock
// pool.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS applicants (
	id         BIGINT PRIMARY KEY,
	name       TEXT NOT NULL,
	role       TEXT NOT NULL,
	applied_at DATE NOT NULL,
	status     TEXT NOT NULL,
	department TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS employees (
	id         BIGINT PRIMARY KEY,
	name       TEXT NOT NULL,
	department TEXT NOT NULL DEFAULT '',
	salary     DOUBLE PRECISION NOT NULL DEFAULT 0,
	started_at DATE NOT NULL,
	ended_at   DATE
);

CREATE TABLE IF NOT EXISTS employment_types (
	employee_id BIGINT PRIMARY KEY,
	type        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS role_mappings (
	role        TEXT PRIMARY KEY,
	department  TEXT NOT NULL,
	confidence  DOUBLE PRECISION NOT NULL,
	source      TEXT NOT NULL,
	status      TEXT NOT NULL,
	departments JSONB NOT NULL DEFAULT '[]',
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	applicants   BIGINT NOT NULL,
	employees    BIGINT NOT NULL,
	links        BIGINT NOT NULL,
	group_errors BIGINT NOT NULL,
	result       JSONB NOT NULL,
	finished_at  TIMESTAMPTZ NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_applicants_status ON applicants(status);
CREATE INDEX IF NOT EXISTS idx_applicants_name ON applicants(name);
CREATE INDEX IF NOT EXISTS idx_employees_name ON employees(name);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) UpsertRecords(ctx context.Context, batch model.Batch) (model.RecordCounts, error) {
	var counts model.RecordCounts

	if len(batch.Applicants) > 0 {
		rows := make([][]any, len(batch.Applicants))
		for i, a := range batch.Applicants {
			rows[i] = []any{a.ID, a.Name, a.Role, a.AppliedAt, string(a.Status), a.Department}
		}
		n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
			Table:        "applicants",
			Columns:      []string{"id", "name", "role", "applied_at", "status", "department"},
			ConflictKeys: []string{"id"},
		}, rows)
		if err != nil {
			return counts, eris.Wrap(err, "postgres: upsert applicants")
		}
		counts.Applicants = int(n)
	}

	if len(batch.Employees) > 0 {
		rows := make([][]any, len(batch.Employees))
		for i, e := range batch.Employees {
			rows[i] = []any{e.ID, e.Name, e.Department, e.Salary, e.StartedAt, e.EndedAt}
		}
		n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
			Table:        "employees",
			Columns:      []string{"id", "name", "department", "salary", "started_at", "ended_at"},
			ConflictKeys: []string{"id"},
		}, rows)
		if err != nil {
			return counts, eris.Wrap(err, "postgres: upsert employees")
		}
		counts.Employees = int(n)
	}

	if len(batch.EmploymentTypes) > 0 {
		rows := make([][]any, len(batch.EmploymentTypes))
		for i, t := range batch.EmploymentTypes {
			rows[i] = []any{t.EmployeeID, t.Type}
		}
		n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
			Table:        "employment_types",
			Columns:      []string{"employee_id", "type"},
			ConflictKeys: []string{"employee_id"},
		}, rows)
		if err != nil {
			return counts, eris.Wrap(err, "postgres: upsert employment types")
		}
		counts.EmploymentTypes = int(n)
	}

	return counts, nil
}

// Snapshot reads all source tables inside a repeatable-read transaction
// so concurrent ingests cannot tear the view.
func (s *PostgresStore) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, eris.Wrap(err, "postgres: begin snapshot tx")
	}
	defer tx.Rollback(ctx)

	snap := &model.Snapshot{TakenAt: time.Now().UTC()}

	rows, err := tx.Query(ctx, "select_applicants")
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query applicants")
	}
	snap.Applicants, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Applicant, error) {
		var (
			a      model.Applicant
			status string
		)
		err := row.Scan(&a.ID, &a.Name, &a.Role, &a.AppliedAt, &status, &a.Department)
		a.Status = model.ApplicationStatus(status)
		return a, err
	})
	if err != nil {
		return nil, eris.Wrap(err, "postgres: collect applicants")
	}

	rows, err = tx.Query(ctx, "select_employees")
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query employees")
	}
	snap.Employees, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Employee, error) {
		var e model.Employee
		err := row.Scan(&e.ID, &e.Name, &e.Department, &e.Salary, &e.StartedAt, &e.EndedAt)
		return e, err
	})
	if err != nil {
		return nil, eris.Wrap(err, "postgres: collect employees")
	}

	rows, err = tx.Query(ctx, "select_types")
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query employment types")
	}
	snap.EmploymentTypes, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.EmploymentType, error) {
		var t model.EmploymentType
		err := row.Scan(&t.EmployeeID, &t.Type)
		return t, err
	})
	if err != nil {
		return nil, eris.Wrap(err, "postgres: collect employment types")
	}

	return snap, eris.Wrap(tx.Commit(ctx), "postgres: commit snapshot")
}

func (s *PostgresStore) Mappings(ctx context.Context) ([]model.RoleMapping, error) {
	rows, err := s.pool.Query(ctx, "select_mappings")
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query mappings")
	}
	mappings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.RoleMapping, error) {
		var (
			m      model.RoleMapping
			status string
		)
		err := row.Scan(&m.Role, &m.Department, &m.Confidence, &m.Source, &status, &m.Departments, &m.UpdatedAt)
		m.Status = model.MappingStatus(status)
		return m, err
	})
	return mappings, eris.Wrap(err, "postgres: collect mappings")
}

func (s *PostgresStore) SaveMappings(ctx context.Context, mappings []model.RoleMapping) error {
	if len(mappings) == 0 {
		return nil
	}
	rows := make([][]any, len(mappings))
	for i, m := range mappings {
		deptsJSON, err := json.Marshal(m.Departments)
		if err != nil {
			return eris.Wrapf(err, "postgres: marshal departments for %s", m.Role)
		}
		rows[i] = []any{m.Role, m.Department, m.Confidence, m.Source, string(m.Status), deptsJSON, m.UpdatedAt}
	}
	_, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "role_mappings",
		Columns:      []string{"role", "department", "confidence", "source", "status", "departments", "updated_at"},
		ConflictKeys: []string{"role"},
	}, rows)
	return eris.Wrap(err, "postgres: upsert mappings")
}

func (s *PostgresStore) PublishRun(ctx context.Context, result *model.RunResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal run result")
	}
	_, err = s.pool.Exec(ctx, "insert_run",
		result.ID, result.Counts.Applicants, result.Counts.Employees,
		len(result.Links), len(result.GroupErrors), resultJSON, result.FinishedAt,
	)
	return eris.Wrapf(err, "postgres: publish run %s", result.ID)
}

func (s *PostgresStore) LatestRun(ctx context.Context) (*model.RunResult, error) {
	var resultJSON []byte
	err := s.pool.QueryRow(ctx, "latest_run").Scan(&resultJSON)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: latest run")
	}
	var result model.RunResult
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal run result")
	}
	return &result, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]model.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, "list_runs", limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	summaries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.RunSummary, error) {
		var s model.RunSummary
		err := row.Scan(&s.ID, &s.Applicants, &s.Employees, &s.Links, &s.GroupErrors, &s.FinishedAt)
		return s, err
	})
	return summaries, eris.Wrap(err, "postgres: collect runs")
}

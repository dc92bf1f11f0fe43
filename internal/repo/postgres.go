package repo

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/jackc/pgx/v5"
    "github.com/jackc/pgx/v5/pgxpool"
    "github.com/rs/zerolog"

    "github.com/RitikaPC/SSDP-Release-Notes/internal/config"
    "github.com/RitikaPC/SSDP-Release-Notes/internal/domain"
)

type DB struct {
    Pool *pgxpool.Pool
    log  zerolog.Logger
}

func MustOpen(ctx context.Context, cfg config.Config, log zerolog.Logger) *DB {
    pool, err := pgxpool.New(ctx, cfg.DBDSN)
    if err != nil { log.Fatal().Err(err).Msg("db connect failed") }
    ctx2, cancel := context.WithTimeout(ctx, 10*time.Second); defer cancel()
    if err := pool.Ping(ctx2); err != nil { log.Fatal().Err(err).Msg("db ping failed") }
    return &DB{Pool: pool, log: log}
}

func (d *DB) Close() { d.Pool.Close() }

type Repository struct {
    db  *DB
    log zerolog.Logger
}

func NewRepository(d *DB, log zerolog.Logger) *Repository { return &Repository{db: d, log: log} }

// EnsureSchema creates the tables on first boot. Idempotent.
func (r *Repository) EnsureSchema(ctx context.Context) error {
    const q = `
        CREATE TABLE IF NOT EXISTS publish_records(
            year      INT NOT NULL,
            week      INT NOT NULL,
            component TEXT NOT NULL,
            version   TEXT NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            PRIMARY KEY(year, week, component)
        );
        CREATE TABLE IF NOT EXISTS job_runs(
            id          BIGSERIAL PRIMARY KEY,
            started_at  TIMESTAMPTZ NOT NULL,
            finished_at TIMESTAMPTZ,
            year        INT NOT NULL,
            week        INT NOT NULL,
            entries     INT,
            action      TEXT,
            success     BOOLEAN NOT NULL DEFAULT false,
            error       TEXT
        );`
    if _, err := r.db.Pool.Exec(ctx, q); err != nil {
        return fmt.Errorf("%w: ensure schema: %v", domain.ErrStoreUnavailable, err)
    }
    return nil
}

func (r *Repository) TryAdvisoryLock(ctx context.Context, key int64) (bool, error) {
    var ok bool
    err := r.db.Pool.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&ok)
    return ok, err
}

func (r *Repository) AdvisoryUnlock(ctx context.Context, key int64) error {
    var ok bool
    err := r.db.Pool.QueryRow(ctx, "SELECT pg_advisory_unlock($1)", key).Scan(&ok)
    if !ok && err == nil { return errors.New("advisory unlock returned false") }
    return err
}

// ReadPublishRecord loads the stored component versions for a week.
// Returns (nil, nil) when the week was never published. Any read failure is
// wrapped in domain.ErrStoreUnavailable so callers refuse to guess.
func (r *Repository) ReadPublishRecord(ctx context.Context, year, week int) (*domain.PublishRecord, error) {
    rows, err := r.db.Pool.Query(ctx,
        `SELECT component, version FROM publish_records WHERE year=$1 AND week=$2`, year, week)
    if err != nil { return nil, fmt.Errorf("%w: read record %d-W%02d: %v", domain.ErrStoreUnavailable, year, week, err) }
    defer rows.Close()
    versions := map[string]string{}
    for rows.Next() {
        var c, v string
        if err := rows.Scan(&c, &v); err != nil {
            return nil, fmt.Errorf("%w: scan record %d-W%02d: %v", domain.ErrStoreUnavailable, year, week, err)
        }
        versions[c] = v
    }
    if err := rows.Err(); err != nil {
        return nil, fmt.Errorf("%w: read record %d-W%02d: %v", domain.ErrStoreUnavailable, year, week, err)
    }
    if len(versions) == 0 { return nil, nil }
    return &domain.PublishRecord{Year: year, Week: week, Versions: versions}, nil
}

// WritePublishRecord stores the record transactionally. With replace set the
// week's previous rows are dropped first, otherwise rows are upserted.
func (r *Repository) WritePublishRecord(ctx context.Context, rec domain.PublishRecord, replace bool) error {
    tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
    if err != nil { return fmt.Errorf("%w: begin write: %v", domain.ErrStoreUnavailable, err) }
    defer tx.Rollback(ctx)

    if replace {
        if _, err := tx.Exec(ctx, `DELETE FROM publish_records WHERE year=$1 AND week=$2`, rec.Year, rec.Week); err != nil {
            return fmt.Errorf("%w: replace record: %v", domain.ErrStoreUnavailable, err)
        }
    }
    const q = `INSERT INTO publish_records(year, week, component, version, updated_at)
        VALUES($1,$2,$3,$4,now())
        ON CONFLICT(year, week, component) DO UPDATE SET version=EXCLUDED.version, updated_at=now()`
    for c, v := range rec.Versions {
        if _, err := tx.Exec(ctx, q, rec.Year, rec.Week, c, v); err != nil {
            return fmt.Errorf("%w: write record %s: %v", domain.ErrStoreUnavailable, c, err)
        }
    }
    if err := tx.Commit(ctx); err != nil {
        return fmt.Errorf("%w: commit write: %v", domain.ErrStoreUnavailable, err)
    }
    return nil
}

// LastVersions resolves, per component, the most recent non-empty version
// recorded strictly before the given week. This backs the "Last Version"
// column of the summary table.
func (r *Repository) LastVersions(ctx context.Context, year, week int) (map[string]string, error) {
    const q = `
        SELECT DISTINCT ON (component) component, version
        FROM publish_records
        WHERE (year < $1 OR (year = $1 AND week < $2)) AND version <> '' AND version <> 'unknown'
        ORDER BY component, year DESC, week DESC`
    rows, err := r.db.Pool.Query(ctx, q, year, week)
    if err != nil { return nil, fmt.Errorf("%w: last versions: %v", domain.ErrStoreUnavailable, err) }
    defer rows.Close()
    out := map[string]string{}
    for rows.Next() {
        var c, v string
        if err := rows.Scan(&c, &v); err != nil {
            return nil, fmt.Errorf("%w: last versions: %v", domain.ErrStoreUnavailable, err)
        }
        out[c] = v
    }
    return out, rows.Err()
}

// ListRecordedWeeks returns the weeks of a year that already carry a record,
// ascending. Gap filling walks this to find unpublished prior weeks.
func (r *Repository) ListRecordedWeeks(ctx context.Context, year int) ([]int, error) {
    rows, err := r.db.Pool.Query(ctx,
        `SELECT DISTINCT week FROM publish_records WHERE year=$1 ORDER BY week`, year)
    if err != nil { return nil, fmt.Errorf("%w: list weeks: %v", domain.ErrStoreUnavailable, err) }
    defer rows.Close()
    var out []int
    for rows.Next() {
        var w int
        if err := rows.Scan(&w); err != nil { return nil, fmt.Errorf("%w: list weeks: %v", domain.ErrStoreUnavailable, err) }
        out = append(out, w)
    }
    return out, rows.Err()
}

// Job runs

func (r *Repository) StartJobRun(ctx context.Context, year, week int) (int64, error) {
    const q = `INSERT INTO job_runs(started_at, year, week, success) VALUES(now(), $1, $2, false) RETURNING id`
    var id int64
    if err := r.db.Pool.QueryRow(ctx, q, year, week).Scan(&id); err != nil { return 0, err }
    return id, nil
}

func (r *Repository) FinishJobRun(ctx context.Context, id int64, entries int, action string, success bool, errStr string) error {
    const q = `UPDATE job_runs SET finished_at=now(), entries=$2, action=$3, success=$4, error=$5 WHERE id=$1`
    _, err := r.db.Pool.Exec(ctx, q, id, entries, action, success, errStr)
    return err
}

type LastRun struct {
    StartedAt  time.Time  `json:"started_at"`
    FinishedAt *time.Time `json:"finished_at"`
    Year       int        `json:"year"`
    Week       int        `json:"week"`
    Entries    int        `json:"entries"`
    Action     string     `json:"action"`
    Success    bool       `json:"success"`
    Error      string     `json:"error"`
}

func (r *Repository) GetLastRun(ctx context.Context) (*LastRun, error) {
    const q = `SELECT started_at, finished_at, year, week,
        coalesce(entries,0), coalesce(action,''), coalesce(success,false), coalesce(error,'')
        FROM job_runs ORDER BY id DESC LIMIT 1`
    row := r.db.Pool.QueryRow(ctx, q)
    lr := &LastRun{}
    if err := row.Scan(&lr.StartedAt, &lr.FinishedAt, &lr.Year, &lr.Week, &lr.Entries, &lr.Action, &lr.Success, &lr.Error); err != nil {
        return nil, err
    }
    return lr, nil
}

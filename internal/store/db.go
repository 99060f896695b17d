package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ShayCichocki/baton/pkg/models"
)

// DB is a SQLite-backed PlanStore. Tasks, edges, and warnings are stored
// as JSON columns; results live in their own append-only table.
type DB struct {
	conn *sql.DB
	path string
}

// DefaultDBPath returns the path to the default plan database under the
// XDG data directory.
func DefaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "baton", "plans.db")
}

// Open opens a SQLite database at the given path, creating parent
// directories as needed. WAL mode is enabled for concurrent reads.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &DB{conn: conn, path: path}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the path to the database file.
func (db *DB) Path() string {
	return db.path
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var currentVersion int
	row := db.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, `
			CREATE TABLE IF NOT EXISTS plans (
				id TEXT PRIMARY KEY,
				owner_id TEXT NOT NULL,
				mode TEXT NOT NULL,
				tasks TEXT NOT NULL,
				edges TEXT NOT NULL,
				estimated_cost REAL NOT NULL,
				compliance_warnings TEXT NOT NULL,
				created_at DATETIME NOT NULL
			)
		`},
		{2, `
			CREATE TABLE IF NOT EXISTS results (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				plan_id TEXT NOT NULL REFERENCES plans(id),
				task_id TEXT NOT NULL,
				payload TEXT NOT NULL,
				recorded_at DATETIME NOT NULL
			)
		`},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := db.conn.Exec(m.sql); err != nil {
			return fmt.Errorf("apply migration %d: %w", m.version, err)
		}
		if _, err := db.conn.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
	}

	return nil
}

// Save persists the plan, overwriting any previous version.
func (db *DB) Save(ctx context.Context, plan *models.Plan) error {
	tasks, err := json.Marshal(plan.Tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	edges, err := json.Marshal(plan.Edges)
	if err != nil {
		return fmt.Errorf("marshal edges: %w", err)
	}
	warnings, err := json.Marshal(plan.ComplianceWarnings)
	if err != nil {
		return fmt.Errorf("marshal warnings: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO plans (id, owner_id, mode, tasks, edges, estimated_cost, compliance_warnings, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			mode = excluded.mode,
			tasks = excluded.tasks,
			edges = excluded.edges,
			estimated_cost = excluded.estimated_cost,
			compliance_warnings = excluded.compliance_warnings
	`, plan.ID, plan.OwnerID, string(plan.Mode), string(tasks), string(edges),
		plan.EstimatedCost, string(warnings), plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("save plan %s: %w", plan.ID, err)
	}
	return nil
}

// Load returns the plan with the given id, or a *PlanNotFoundError.
func (db *DB) Load(ctx context.Context, planID string) (*models.Plan, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, owner_id, mode, tasks, edges, estimated_cost, compliance_warnings, created_at
		FROM plans WHERE id = ?
	`, planID)

	var (
		plan     models.Plan
		mode     string
		tasks    string
		edges    string
		warnings string
	)
	err := row.Scan(&plan.ID, &plan.OwnerID, &mode, &tasks, &edges,
		&plan.EstimatedCost, &warnings, &plan.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, &PlanNotFoundError{PlanID: planID}
	}
	if err != nil {
		return nil, fmt.Errorf("load plan %s: %w", planID, err)
	}

	plan.Mode = models.Mode(mode)
	if err := json.Unmarshal([]byte(tasks), &plan.Tasks); err != nil {
		return nil, fmt.Errorf("unmarshal tasks for plan %s: %w", planID, err)
	}
	if err := json.Unmarshal([]byte(edges), &plan.Edges); err != nil {
		return nil, fmt.Errorf("unmarshal edges for plan %s: %w", planID, err)
	}
	if err := json.Unmarshal([]byte(warnings), &plan.ComplianceWarnings); err != nil {
		return nil, fmt.Errorf("unmarshal warnings for plan %s: %w", planID, err)
	}

	return &plan, nil
}

// SaveResults appends execution results for the plan.
func (db *DB) SaveResults(ctx context.Context, planID string, results []models.ExecutionResult) error {
	if _, err := db.Load(ctx, planID); err != nil {
		return err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, result := range results {
		payload, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("marshal result for task %s: %w", result.TaskID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO results (plan_id, task_id, payload, recorded_at)
			VALUES (?, ?, ?, ?)
		`, planID, result.TaskID, string(payload), now)
		if err != nil {
			return fmt.Errorf("insert result for task %s: %w", result.TaskID, err)
		}
	}

	return tx.Commit()
}

// Results returns all recorded results for the plan, oldest first.
func (db *DB) Results(ctx context.Context, planID string) ([]models.ExecutionResult, error) {
	if _, err := db.Load(ctx, planID); err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT payload FROM results WHERE plan_id = ? ORDER BY id
	`, planID)
	if err != nil {
		return nil, fmt.Errorf("query results for plan %s: %w", planID, err)
	}
	defer rows.Close()

	var results []models.ExecutionResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		var result models.ExecutionResult
		if err := json.Unmarshal([]byte(payload), &result); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

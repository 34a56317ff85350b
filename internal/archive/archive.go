// Package archive provides SQLite-based storage of completed runs for
// consumers (CLI, dashboards). The engine itself persists nothing; archiving
// happens after the run, from the engine's report and daily log outputs.
package archive

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/verdantworks/agrosim/internal/engine"
	"github.com/verdantworks/agrosim/internal/farm"
	"github.com/verdantworks/agrosim/internal/report"
)

// DB wraps a SQLite connection for run storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		size_ha REAL NOT NULL,
		crop TEXT NOT NULL,
		soil TEXT NOT NULL,
		days INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS daily_log (
		run_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		soil_moisture REAL NOT NULL,
		soil_n REAL NOT NULL,
		pest_pressure REAL NOT NULL,
		crop_growth REAL NOT NULL,
		water_used REAL NOT NULL,
		irrigation REAL NOT NULL,
		fertilizer REAL NOT NULL,
		PRIMARY KEY (run_id, day)
	);

	CREATE INDEX IF NOT EXISTS idx_daily_log_run ON daily_log(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun writes one run (full replace for the given id).
func (db *DB) SaveRun(id string, cfg farm.Config, rep report.Report, log []engine.DailyLogEntry) error {
	repJSON, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM runs WHERE id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM daily_log WHERE run_id = ?", id); err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO runs (id, created_at, size_ha, crop, soil, days, seed, report_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339),
		cfg.SizeHectares, string(cfg.Crop), string(cfg.Soil), cfg.Days, cfg.Seed,
		string(repJSON),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, e := range log {
		_, err := tx.Exec(`
			INSERT INTO daily_log
				(run_id, day, soil_moisture, soil_n, pest_pressure, crop_growth,
				 water_used, irrigation, fertilizer)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, e.Day, e.SoilMoistureAvg, e.SoilN, e.PestPressure, e.CropGrowth,
			e.WaterUsed, e.IrrigationApplied, e.FertilizerApplied,
		)
		if err != nil {
			return fmt.Errorf("insert log day %d: %w", e.Day, err)
		}
	}

	return tx.Commit()
}

// LoadReport reads back the stored report for a run.
func (db *DB) LoadReport(id string) (report.Report, error) {
	var repJSON string
	err := db.conn.Get(&repJSON, "SELECT report_json FROM runs WHERE id = ?", id)
	if err != nil {
		return report.Report{}, fmt.Errorf("load run %s: %w", id, err)
	}

	var rep report.Report
	if err := json.Unmarshal([]byte(repJSON), &rep); err != nil {
		return report.Report{}, fmt.Errorf("decode report %s: %w", id, err)
	}
	return rep, nil
}

// LoadDailyLog reads back the stored day series for a run, in day order.
func (db *DB) LoadDailyLog(id string) ([]engine.DailyLogEntry, error) {
	rows, err := db.conn.Query(`
		SELECT day, soil_moisture, soil_n, pest_pressure, crop_growth,
		       water_used, irrigation, fertilizer
		FROM daily_log WHERE run_id = ? ORDER BY day`, id)
	if err != nil {
		return nil, fmt.Errorf("load log %s: %w", id, err)
	}
	defer rows.Close()

	var log []engine.DailyLogEntry
	for rows.Next() {
		var e engine.DailyLogEntry
		err := rows.Scan(&e.Day, &e.SoilMoistureAvg, &e.SoilN, &e.PestPressure,
			&e.CropGrowth, &e.WaterUsed, &e.IrrigationApplied, &e.FertilizerApplied)
		if err != nil {
			return nil, err
		}
		log = append(log, e)
	}
	return log, rows.Err()
}

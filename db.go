package gbavid

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// A Run is one recorded conversion.
type Run struct {
	ID             uuid.UUID
	Started        time.Time
	Source         string
	Frames         int
	Width          int
	Height         int
	Format         string
	Steps          string
	InputSize      int64
	CompressedSize int64
	Duration       time.Duration
}

// Ratio returns the compressed size as a fraction of the input size.
func (r *Run) Ratio() float64 {
	if r.InputSize == 0 {
		return 0
	}
	return float64(r.CompressedSize) / float64(r.InputSize)
}

// StatsDB records conversion runs in a sqlite database.
type StatsDB struct {
	db *sql.DB
}

// NewStatsDB opens, creating if necessary, the database in file.
func NewStatsDB(file string) (*StatsDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS source (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS run (id TEXT PRIMARY KEY NOT NULL, source_id INTEGER NOT NULL, started INTEGER NOT NULL, frames INTEGER NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, format TEXT NOT NULL, steps TEXT NOT NULL, input_size INTEGER NOT NULL, compressed_size INTEGER NOT NULL, duration INTEGER NOT NULL, FOREIGN KEY(source_id) REFERENCES source(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &StatsDB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *StatsDB) Close() error {
	return db.db.Close()
}

func (db *StatsDB) addSource(name string) (int64, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM source WHERE name = ?", name).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO source (name) VALUES (?)", name)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Record stores r, assigning it an ID if it doesn't have one.
func (db *StatsDB) Record(r *Run) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}

	source, err := db.addSource(r.Source)
	if err != nil {
		return err
	}

	if _, err := db.db.Exec("INSERT INTO run (id, source_id, started, frames, width, height, format, steps, input_size, compressed_size, duration) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		r.ID.String(), source, r.Started.UnixNano(), r.Frames, r.Width, r.Height, r.Format, r.Steps, r.InputSize, r.CompressedSize, int64(r.Duration)); err != nil {
		return err
	}

	return nil
}

// Runs returns every recorded run for source, or every run if source is
// empty, oldest first.
func (db *StatsDB) Runs(source string) ([]Run, error) {
	query := "SELECT r.id, s.name, r.started, r.frames, r.width, r.height, r.format, r.steps, r.input_size, r.compressed_size, r.duration FROM run AS r JOIN source AS s ON r.source_id = s.id"
	var args []interface{}
	if source != "" {
		query += " WHERE s.name = ?"
		args = append(args, source)
	}
	query += " ORDER BY r.started, r.id"

	rows, err := db.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                 Run
			id                string
			started, duration int64
		)
		if err := rows.Scan(&id, &r.Source, &started, &r.Frames, &r.Width, &r.Height, &r.Format, &r.Steps, &r.InputSize, &r.CompressedSize, &duration); err != nil {
			return nil, err
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		r.Started = time.Unix(0, started)
		r.Duration = time.Duration(duration)
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import for side-effects only

	"mspro-labs/wildlife-finder/internal/models"
)

// Connect opens the SQLite gazetteer database and ensures the schema exists.
func Connect(dbPath string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL", dbPath)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

// createSchema is private as it's only called by Connect.
func createSchema(db *sql.DB) error {
	placesTable := `
	CREATE TABLE IF NOT EXISTS places (
	  name TEXT PRIMARY KEY,
	  display_name TEXT NOT NULL,
	  latitude REAL NOT NULL,
	  longitude REAL NOT NULL,
	  updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(placesTable)
	return err
}

// SavePlaces performs a batch UPSERT of places keyed by their lower-cased name.
func SavePlaces(db *sql.DB, places []models.Place) (int64, error) {
	upsertSQL := `
	INSERT INTO places (name, display_name, latitude, longitude, updated_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(name) DO UPDATE SET
	  display_name = excluded.display_name,
	  latitude = excluded.latitude,
	  longitude = excluded.longitude,
	  updated_at = CURRENT_TIMESTAMP;
	`

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var totalAffected int64
	for _, p := range places {
		key := models.Key(p.Name)
		if key == "" {
			return 0, fmt.Errorf("place with empty name")
		}
		res, err := stmt.ExecContext(ctx, key, strings.TrimSpace(p.Name), p.Coordinate.Latitude, p.Coordinate.Longitude)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert %s: %w", p.Name, err)
		}
		rows, _ := res.RowsAffected()
		totalAffected += rows
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return totalAffected, nil
}

// ListPlaces returns every stored place ordered by name.
func ListPlaces(db *sql.DB) ([]models.Place, error) {
	rows, err := db.Query(`SELECT display_name, latitude, longitude FROM places ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	defer rows.Close()

	places := []models.Place{}
	for rows.Next() {
		var p models.Place
		if err := rows.Scan(&p.Name, &p.Coordinate.Latitude, &p.Coordinate.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, p)
	}
	return places, rows.Err()
}

// DeletePlace removes a place by name, ignoring case.
func DeletePlace(db *sql.DB, name string) (int64, error) {
	res, err := db.Exec("DELETE FROM places WHERE name = ?", models.Key(name))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

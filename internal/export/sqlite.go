package export

import (
	"database/sql"
	"fmt"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/leadharbor/leadgen-cli/internal/lead"
)

const leadsSchema = `
CREATE TABLE IF NOT EXISTS %s (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	name         TEXT NOT NULL,
	address      TEXT,
	phone        TEXT,
	email        TEXT,
	website      TEXT,
	category     TEXT,
	rating       REAL,
	review_count INTEGER,
	latitude     REAL,
	longitude    REAL,
	place_id     TEXT,
	social       TEXT,
	maps_url     TEXT,
	source_url   TEXT,
	captured_at  TEXT
);`

func (e *Exporter) writeSQLite(path string, leads []lead.Lead) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return eris.Wrap(err, "export: open sqlite file")
	}
	defer db.Close() //nolint:errcheck

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return eris.Wrap(err, "export: set sqlite pragma")
	}

	table := e.opts.SQLiteTable
	if _, err := db.Exec(fmt.Sprintf(leadsSchema, table)); err != nil {
		return eris.Wrap(err, "export: create leads table")
	}

	tx, err := db.Begin()
	if err != nil {
		return eris.Wrap(err, "export: begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %s
		(name, address, phone, email, website, category, rating, review_count,
		 latitude, longitude, place_id, social, maps_url, source_url, captured_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, table))
	if err != nil {
		return eris.Wrap(err, "export: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, l := range leads {
		_, err := stmt.Exec(
			l.Name, l.Address, l.Phone, l.Email, l.Website, l.Category,
			nullFloat(l.Rating), nullInt(l.ReviewCount),
			nullFloat(l.Latitude), nullFloat(l.Longitude),
			l.PlaceID, formatSocial(l.Social), l.MapsURL, l.SourceURL,
			formatTime(l.CapturedAt),
		)
		if err != nil {
			return eris.Wrap(err, "export: insert lead")
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "export: commit transaction")
	}
	return nil
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

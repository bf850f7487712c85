package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/minaretapp/minaret/internal/logger"
	"github.com/minaretapp/minaret/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS schedule_cache (
	id      INTEGER PRIMARY KEY CHECK (id = 1),
	payload TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS prayer_records (
	day        TEXT NOT NULL,
	prayer     TEXT NOT NULL,
	status     TEXT NOT NULL,
	in_jamaah  INTEGER NOT NULL DEFAULT 0,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (day, prayer)
);

CREATE TABLE IF NOT EXISTS legacy_completed (
	day     TEXT PRIMARY KEY,
	prayers TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS widget_snapshot (
	id      INTEGER PRIMARY KEY CHECK (id = 1),
	payload TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS notification_ids (
	identifier TEXT PRIMARY KEY,
	fire_at    TEXT NOT NULL
);
`

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	path string
	db   *sqlx.DB
}

// NewSQLiteStore creates a store backed by the database at path. Use
// ":memory:" for tests.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init opens (or creates) the database and applies the schema.
func (s *SQLiteStore) Init() error {
	if s.path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("opening sqlite db: %w", err)
	}
	// A single connection keeps writes serialized and makes ":memory:" hold
	// one database instead of one per pooled connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return fmt.Errorf("applying schema: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) GetSnapshot() (models.ScheduleSnapshot, error) {
	var payload string
	err := s.db.Get(&payload, "SELECT payload FROM schedule_cache WHERE id = 1")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ScheduleSnapshot{}, ErrNotFound
		}
		return models.ScheduleSnapshot{}, fmt.Errorf("loading schedule snapshot: %w", err)
	}

	var snap models.ScheduleSnapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		// Undecodable snapshot is a cache miss; it is overwritten on the
		// next successful save.
		logger.Warn("Discarding corrupt schedule snapshot", "error", err)
		return models.ScheduleSnapshot{}, ErrNotFound
	}
	return snap, nil
}

func (s *SQLiteStore) SaveSnapshot(snap models.ScheduleSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding schedule snapshot: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO schedule_cache (id, payload) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload`,
		string(payload))
	if err != nil {
		return fmt.Errorf("saving schedule snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateSnapshotCoordinate(coord models.Coordinate) error {
	snap, err := s.GetSnapshot()
	if err != nil {
		return err
	}
	snap.Coordinate = coord
	return s.SaveSnapshot(snap)
}

func (s *SQLiteStore) GetRecord(day string, prayer models.PrayerName) (models.PrayerRecord, error) {
	row := s.db.QueryRow(`
		SELECT day, prayer, status, in_jamaah, updated_at
		FROM prayer_records WHERE day = ? AND prayer = ?`, day, string(prayer))

	var rec models.PrayerRecord
	var updatedAt string
	if err := row.Scan(&rec.Day, &rec.Prayer, &rec.Status, &rec.InJamaah, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PrayerRecord{}, ErrNotFound
		}
		return models.PrayerRecord{}, fmt.Errorf("loading record %s/%s: %w", day, prayer, err)
	}

	t, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		logger.Warn("Discarding record with corrupt timestamp", "day", day, "prayer", prayer)
		return models.PrayerRecord{}, ErrNotFound
	}
	rec.UpdatedAt = t
	return rec, nil
}

func (s *SQLiteStore) UpsertRecord(rec models.PrayerRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO prayer_records (day, prayer, status, in_jamaah, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (day, prayer) DO UPDATE SET
			status = excluded.status,
			in_jamaah = excluded.in_jamaah,
			updated_at = excluded.updated_at`,
		rec.Day, string(rec.Prayer), string(rec.Status), rec.InJamaah,
		rec.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upserting record %s/%s: %w", rec.Day, rec.Prayer, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteRecord(day string, prayer models.PrayerName) error {
	_, err := s.db.Exec("DELETE FROM prayer_records WHERE day = ? AND prayer = ?",
		day, string(prayer))
	if err != nil {
		return fmt.Errorf("deleting record %s/%s: %w", day, prayer, err)
	}
	return nil
}

func (s *SQLiteStore) RecordsInRange(startDay, endDay string) ([]models.PrayerRecord, error) {
	rows, err := s.db.Query(`
		SELECT day, prayer, status, in_jamaah, updated_at
		FROM prayer_records WHERE day >= ? AND day <= ?
		ORDER BY day, prayer`, startDay, endDay)
	if err != nil {
		return nil, fmt.Errorf("loading records %s..%s: %w", startDay, endDay, err)
	}
	defer rows.Close()

	var records []models.PrayerRecord
	for rows.Next() {
		var rec models.PrayerRecord
		var updatedAt string
		if err := rows.Scan(&rec.Day, &rec.Prayer, &rec.Status, &rec.InJamaah, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
			rec.UpdatedAt = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) CompletedSet(day string) (map[models.PrayerName]bool, error) {
	var payload string
	err := s.db.Get(&payload, "SELECT prayers FROM legacy_completed WHERE day = ?", day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return map[models.PrayerName]bool{}, nil
		}
		return nil, fmt.Errorf("loading completed set %s: %w", day, err)
	}

	var names []models.PrayerName
	if err := json.Unmarshal([]byte(payload), &names); err != nil {
		logger.Warn("Discarding corrupt completed set", "day", day, "error", err)
		return map[models.PrayerName]bool{}, nil
	}

	set := make(map[models.PrayerName]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set, nil
}

func (s *SQLiteStore) SaveCompletedSet(day string, set map[models.PrayerName]bool) error {
	names := make([]models.PrayerName, 0, len(set))
	for _, p := range models.AllPrayers() {
		if set[p] {
			names = append(names, p)
		}
	}
	payload, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("encoding completed set: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO legacy_completed (day, prayers) VALUES (?, ?)
		ON CONFLICT (day) DO UPDATE SET prayers = excluded.prayers`,
		day, string(payload))
	if err != nil {
		return fmt.Errorf("saving completed set %s: %w", day, err)
	}
	return nil
}

func (s *SQLiteStore) GetWidgetSnapshot() (models.WidgetSnapshot, error) {
	var payload string
	err := s.db.Get(&payload, "SELECT payload FROM widget_snapshot WHERE id = 1")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.WidgetSnapshot{}, ErrNotFound
		}
		return models.WidgetSnapshot{}, fmt.Errorf("loading widget snapshot: %w", err)
	}

	var snap models.WidgetSnapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		logger.Warn("Discarding corrupt widget snapshot", "error", err)
		return models.WidgetSnapshot{}, ErrNotFound
	}
	return snap, nil
}

func (s *SQLiteStore) SaveWidgetSnapshot(snap models.WidgetSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding widget snapshot: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO widget_snapshot (id, payload) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload`,
		string(payload))
	if err != nil {
		return fmt.Errorf("saving widget snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) NotificationIDs(prefix string) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT identifier FROM notification_ids WHERE identifier LIKE ? ORDER BY identifier",
		prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("loading notification ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning notification id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) AddNotificationID(identifier string, fireAt time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO notification_ids (identifier, fire_at) VALUES (?, ?)
		ON CONFLICT (identifier) DO UPDATE SET fire_at = excluded.fire_at`,
		identifier, fireAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving notification id %s: %w", identifier, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteNotificationIDs(identifiers []string) error {
	for _, id := range identifiers {
		if _, err := s.db.Exec("DELETE FROM notification_ids WHERE identifier = ?", id); err != nil {
			return fmt.Errorf("deleting notification id %s: %w", id, err)
		}
	}
	return nil
}

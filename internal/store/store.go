// Package store persists track particle-ID results to SQLite for offline
// analysis and selection studies.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/argoncube/trackpid/internal/features"
	"github.com/argoncube/trackpid/internal/inference"
)

// Store wraps the results database.
type Store struct {
	*sql.DB
}

// Record is one persisted classification: the track identity, the network
// scores, and the feature vector the scores were computed from (kept so
// score regressions can be traced back to feature drift).
type Record struct {
	ID        string
	TrackID   string
	Result    inference.PIDResult
	Features  features.FeatureVector
	Model     string
	CreatedAt time.Time
}

// Open opens (or creates) the results database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS pid_results (
			id                TEXT PRIMARY KEY,
			track_id          TEXT NOT NULL,
			muon_score        DOUBLE,
			pion_score        DOUBLE,
			proton_score      DOUBLE,
			n_tracks          BIGINT,
			n_showers         BIGINT,
			n_grandchildren   BIGINT,
			dedx_mean         DOUBLE,
			dedx_sigma        DOUBLE,
			deflection_mean   DOUBLE,
			deflection_sigma  DOUBLE,
			model             TEXT,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_pid_results_track ON pid_results(track_id);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating pid_results schema: %w", err)
	}

	return &Store{db}, nil
}

// RecordResult inserts one classification and returns the generated row ID.
func (s *Store) RecordResult(trackID string, result inference.PIDResult, fv features.FeatureVector, model string) (string, error) {
	id := fmt.Sprintf("pid_%s", uuid.NewString())
	_, err := s.Exec(`
		INSERT INTO pid_results (
			id, track_id, muon_score, pion_score, proton_score,
			n_tracks, n_showers, n_grandchildren,
			dedx_mean, dedx_sigma, deflection_mean, deflection_sigma, model
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, trackID, result.Muon, result.Pion, result.Proton,
		fv.NTracks, fv.NShowers, fv.NGrandchildren,
		fv.DedxMean, fv.DedxSigma, fv.DeflectionMean, fv.DeflectionSig, model,
	)
	if err != nil {
		return "", fmt.Errorf("inserting pid result for track %s: %w", trackID, err)
	}
	return id, nil
}

// ResultsForTrack returns all stored classifications for one track, newest
// first.
func (s *Store) ResultsForTrack(trackID string) ([]Record, error) {
	rows, err := s.Query(`
		SELECT id, track_id, muon_score, pion_score, proton_score,
			n_tracks, n_showers, n_grandchildren,
			dedx_mean, dedx_sigma, deflection_mean, deflection_sigma,
			model, timestamp
		FROM pid_results
		WHERE track_id = ?
		ORDER BY timestamp DESC`, trackID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// AllResults returns every stored classification, newest first.
func (s *Store) AllResults() ([]Record, error) {
	rows, err := s.Query(`
		SELECT id, track_id, muon_score, pion_score, proton_score,
			n_tracks, n_showers, n_grandchildren,
			dedx_mean, dedx_sigma, deflection_mean, deflection_sigma,
			model, timestamp
		FROM pid_results
		ORDER BY timestamp DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(
			&r.ID, &r.TrackID,
			&r.Result.Muon, &r.Result.Pion, &r.Result.Proton,
			&r.Features.NTracks, &r.Features.NShowers, &r.Features.NGrandchildren,
			&r.Features.DedxMean, &r.Features.DedxSigma,
			&r.Features.DeflectionMean, &r.Features.DeflectionSig,
			&r.Model, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning pid result row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

package db

import (
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/agentscan/agentscan/models"
)

const scanIDLength = 8

const scanIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// scanIDRe validates externally supplied scan ids before they reach SQL.
var scanIDRe = regexp.MustCompile(`^[A-Za-z0-9]{6,12}$`)

// ErrNotFound is returned when a scan id does not exist.
var ErrNotFound = errors.New("scan not found")

// StoredScan is one persisted scan row.
type StoredScan struct {
	ID        string            `json:"id"`
	URL       string            `json:"url"`
	Domain    string            `json:"domain"`
	Score     int               `json:"score"`
	Grade     models.Grade      `json:"grade"`
	Level     int               `json:"level"`
	LevelName string            `json:"levelName"`
	Result    models.ScanResult `json:"result"`
	CreatedAt time.Time         `json:"createdAt"`
}

// LeaderboardEntry is one domain's best scan.
type LeaderboardEntry struct {
	Domain    string       `json:"domain"`
	ScanID    string       `json:"scanId"`
	Score     int          `json:"score"`
	Grade     models.Grade `json:"grade"`
	Level     int          `json:"level"`
	LevelName string       `json:"levelName"`
}

// NewScanID generates a random 8-character alphanumeric scan id.
func NewScanID() (string, error) {
	buf := make([]byte, scanIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate scan id: %w", err)
	}
	for i, b := range buf {
		buf[i] = scanIDAlphabet[int(b)%len(scanIDAlphabet)]
	}
	return string(buf), nil
}

// SaveScan persists a scan result and updates the domain's leaderboard
// entry when this scan beats its previous best. Returns the new scan id.
func (db *DB) SaveScan(result models.ScanResult) (string, error) {
	id, err := NewScanID()
	if err != nil {
		return "", err
	}

	domain := domainOf(result.URL)

	scoresJSON, err := json.Marshal(result.Scores)
	if err != nil {
		return "", fmt.Errorf("failed to encode scores: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO scans (id, url, domain, score, grade, level, level_name, scores_json, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, result.URL, domain, result.Overall, string(result.Grade),
		result.Level.Level, result.Level.Label, string(scoresJSON), string(resultJSON))
	if err != nil {
		return "", fmt.Errorf("failed to insert scan: %w", err)
	}

	// Upsert the domain's best score; a lower score leaves the row alone.
	_, err = db.Exec(`
		INSERT INTO domain_best (domain, scan_id, score, grade, level, level_name, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(domain) DO UPDATE SET
			scan_id = CASE WHEN excluded.score > score THEN excluded.scan_id ELSE scan_id END,
			grade = CASE WHEN excluded.score > score THEN excluded.grade ELSE grade END,
			level = CASE WHEN excluded.score > score THEN excluded.level ELSE level END,
			level_name = CASE WHEN excluded.score > score THEN excluded.level_name ELSE level_name END,
			updated_at = CASE WHEN excluded.score > score THEN CURRENT_TIMESTAMP ELSE updated_at END,
			score = CASE WHEN excluded.score > score THEN excluded.score ELSE score END
	`, domain, id, result.Overall, string(result.Grade), result.Level.Level, result.Level.Label)
	if err != nil {
		return "", fmt.Errorf("failed to update domain best: %w", err)
	}

	return id, nil
}

// GetScan loads one scan by id. Malformed ids return ErrNotFound without
// touching the database.
func (db *DB) GetScan(id string) (*StoredScan, error) {
	if !scanIDRe.MatchString(id) {
		return nil, ErrNotFound
	}

	var (
		s          StoredScan
		grade      string
		resultJSON string
	)
	err := db.QueryRow(`
		SELECT id, url, domain, score, grade, level, level_name, result_json, created_at
		FROM scans WHERE id = ?
	`, id).Scan(&s.ID, &s.URL, &s.Domain, &s.Score, &grade, &s.Level, &s.LevelName, &resultJSON, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load scan %s: %w", id, err)
	}

	s.Grade = models.Grade(grade)
	if err := json.Unmarshal([]byte(resultJSON), &s.Result); err != nil {
		return nil, fmt.Errorf("failed to decode scan %s: %w", id, err)
	}
	return &s, nil
}

// Leaderboard returns the top domains by best score.
func (db *DB) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.Query(`
		SELECT domain, scan_id, score, grade, level, level_name
		FROM domain_best ORDER BY score DESC, domain ASC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var (
			e     LeaderboardEntry
			grade string
		)
		if err := rows.Scan(&e.Domain, &e.ScanID, &e.Score, &grade, &e.Level, &e.LevelName); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		e.Grade = models.Grade(grade)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RecentScans returns the newest scans, newest first.
func (db *DB) RecentScans(limit int) ([]StoredScan, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.Query(`
		SELECT id, url, domain, score, grade, level, level_name, result_json, created_at
		FROM scans ORDER BY created_at DESC, id ASC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent scans: %w", err)
	}
	defer rows.Close()

	var scans []StoredScan
	for rows.Next() {
		var (
			s          StoredScan
			grade      string
			resultJSON string
		)
		if err := rows.Scan(&s.ID, &s.URL, &s.Domain, &s.Score, &grade, &s.Level, &s.LevelName, &resultJSON, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		s.Grade = models.Grade(grade)
		if err := json.Unmarshal([]byte(resultJSON), &s.Result); err != nil {
			return nil, fmt.Errorf("failed to decode scan %s: %w", s.ID, err)
		}
		scans = append(scans, s)
	}
	return scans, rows.Err()
}

// BestForDomain returns the leaderboard entry of one domain, or
// ErrNotFound when the domain has never been scanned.
func (db *DB) BestForDomain(domain string) (*LeaderboardEntry, error) {
	var (
		e     LeaderboardEntry
		grade string
	)
	err := db.QueryRow(`
		SELECT domain, scan_id, score, grade, level, level_name
		FROM domain_best WHERE domain = ?
	`, strings.ToLower(domain)).Scan(&e.Domain, &e.ScanID, &e.Score, &grade, &e.Level, &e.LevelName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load domain %s: %w", domain, err)
	}
	e.Grade = models.Grade(grade)
	return &e, nil
}

// domainOf lowercases the URL's host with any www prefix stripped.
func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return strings.ToLower(rawURL)
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

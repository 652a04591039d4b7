package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Scans table: one row per completed scan, full result as JSON
CREATE TABLE IF NOT EXISTS scans (
    id TEXT PRIMARY KEY,              -- short alphanumeric share id
    url TEXT NOT NULL,
    domain TEXT NOT NULL,
    score INTEGER NOT NULL,
    grade TEXT NOT NULL,
    level INTEGER NOT NULL,
    level_name TEXT NOT NULL,
    scores_json TEXT NOT NULL,        -- per-category scores
    result_json TEXT NOT NULL,        -- full ScanResult
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_scans_domain ON scans(domain);
CREATE INDEX IF NOT EXISTS idx_scans_created ON scans(created_at);

-- Best score seen per domain, for the leaderboard
CREATE TABLE IF NOT EXISTS domain_best (
    domain TEXT PRIMARY KEY,
    scan_id TEXT NOT NULL,
    score INTEGER NOT NULL,
    grade TEXT NOT NULL,
    level INTEGER NOT NULL,
    level_name TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (scan_id) REFERENCES scans(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_domain_best_score ON domain_best(score DESC);
`

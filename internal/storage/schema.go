package storage

const schema = `
-- The 'datasets' table holds the whole data set as one JSON document per storage key.
CREATE TABLE IF NOT EXISTS datasets (
    key TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    updated_at DATETIME NOT NULL
);

-- The 'review_logs' table is an append-only history of gradings.
CREATE TABLE IF NOT EXISTS review_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    card_id TEXT NOT NULL,
    deck_id TEXT NOT NULL,
    grade INTEGER NOT NULL, -- 0: Again, 1: Hard, 2: Good, 3: Easy
    reviewed_at DATETIME NOT NULL,
    interval_days REAL NOT NULL,
    ease REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_review_logs_card ON review_logs(card_id);

-- The 'sources' table tracks markdown card sources, either a local directory or a git repository.
CREATE TABLE IF NOT EXISTS sources (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL DEFAULT 'local', -- 'local' or 'git'
    deck_id TEXT NOT NULL,
    last_scanned DATETIME
);
`

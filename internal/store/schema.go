package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS insight_cache (
    cache_key            TEXT PRIMARY KEY,
    provider             TEXT NOT NULL,
    body                 TEXT NOT NULL,
    created_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_insight_cache_created ON insight_cache(created_at);
`

// ABOUTME: SQLite database schema for local client state
// ABOUTME: Creates the session singleton and the preferences table
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Session singleton: the bearer token and the signed-in user
CREATE TABLE IF NOT EXISTS session (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    access_token TEXT NOT NULL DEFAULT '',
    user_json TEXT,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Durable preferences (sidebar state, onboarding tours, arbitrary flags)
CREATE TABLE IF NOT EXISTS preferences (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_preferences_updated ON preferences(updated_at);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1

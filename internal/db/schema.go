package db

// SchemaSQL is the authoritative local schema. Timestamps are RFC3339 text;
// JSON columns hold encoded objects.
const SchemaSQL = `
-- Local identities (local backend mode only)
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name TEXT,
	avatar_url TEXT,
	email_confirmed_at TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS refresh_tokens (
	token TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	revoked INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user ON refresh_tokens(user_id);

-- The signed-in session (at most one row)
CREATE TABLE IF NOT EXISTS session (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	access_token TEXT NOT NULL,
	refresh_token TEXT,
	token_type TEXT,
	expires_at INTEGER NOT NULL DEFAULT 0,
	user_id TEXT,
	user_email TEXT,
	user_name TEXT,
	user_avatar_url TEXT,
	user_created_at TEXT,
	user_updated_at TEXT,
	saved_at TEXT NOT NULL
);

-- Client-side preferences (e.g. the remembered company)
CREATE TABLE IF NOT EXISTS preferences (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS companies (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT,
	document TEXT,
	address TEXT,
	city TEXT,
	state TEXT,
	zip_code TEXT,
	plan TEXT NOT NULL CHECK (plan IN ('basic', 'professional', 'enterprise')) DEFAULT 'basic',
	status TEXT NOT NULL CHECK (status IN ('active', 'inactive', 'pending', 'suspended')) DEFAULT 'active',
	settings TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_companies_email ON companies(email);

CREATE TABLE IF NOT EXISTS profiles (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	company_id TEXT NOT NULL,
	role TEXT NOT NULL CHECK (role IN ('admin', 'manager', 'user', 'viewer')) DEFAULT 'user',
	permissions TEXT,
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	UNIQUE (user_id, company_id),
	FOREIGN KEY (company_id) REFERENCES companies(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_profiles_user ON profiles(user_id);

CREATE TABLE IF NOT EXISTS clients (
	id TEXT PRIMARY KEY,
	company_id TEXT NOT NULL,
	type TEXT NOT NULL CHECK (type IN ('individual', 'company')),
	name TEXT NOT NULL,
	email TEXT,
	phone TEXT,
	document TEXT,
	address TEXT,
	city TEXT,
	state TEXT,
	zip_code TEXT,
	category TEXT,
	status TEXT NOT NULL CHECK (status IN ('active', 'inactive', 'prospect')) DEFAULT 'active',
	notes TEXT,
	custom_fields TEXT,
	created_by TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	FOREIGN KEY (company_id) REFERENCES companies(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_clients_company ON clients(company_id, created_at);

CREATE TABLE IF NOT EXISTS proposals (
	id TEXT PRIMARY KEY,
	company_id TEXT NOT NULL,
	client_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL CHECK (status IN ('draft', 'sent', 'viewed', 'approved', 'rejected', 'expired')) DEFAULT 'draft',
	total_amount REAL NOT NULL DEFAULT 0,
	discount REAL,
	items TEXT NOT NULL DEFAULT '[]',
	valid_until TEXT,
	notes TEXT,
	created_by TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	FOREIGN KEY (company_id) REFERENCES companies(id) ON DELETE CASCADE,
	FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_proposals_company ON proposals(company_id, created_at);

CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	company_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL CHECK (status IN ('todo', 'in_progress', 'review', 'done')) DEFAULT 'todo',
	priority TEXT NOT NULL CHECK (priority IN ('low', 'medium', 'high', 'urgent')) DEFAULT 'medium',
	assigned_to TEXT,
	due_date TEXT,
	client_id TEXT,
	proposal_id TEXT,
	created_by TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	FOREIGN KEY (company_id) REFERENCES companies(id) ON DELETE CASCADE,
	FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE SET NULL,
	FOREIGN KEY (proposal_id) REFERENCES proposals(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_company ON tasks(company_id, created_at);
CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(company_id, due_date);

CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	company_id TEXT NOT NULL,
	type TEXT NOT NULL CHECK (type IN ('info', 'success', 'warning', 'error')),
	title TEXT NOT NULL,
	message TEXT NOT NULL,
	is_read INTEGER NOT NULL DEFAULT 0,
	data TEXT,
	created_at TEXT NOT NULL,
	FOREIGN KEY (company_id) REFERENCES companies(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, company_id, created_at);
`

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}

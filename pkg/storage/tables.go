package storage

// Table declares a table the gateway may touch: its id column, the full
// column set, and the allow-lists for generic inserts and updates. Columns
// absent from Updatable (such as users.password_digest and users.role on the
// generic path) can never be reached through a field map.
type Table struct {
	Name       string
	IDColumn   string
	Columns    []string
	Insertable []string
	Updatable  []string
}

// HasColumn reports whether the column exists on the table
func (t Table) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Tables is the registry of every table the gateway serves.
var Tables = map[string]Table{
	"users": {
		Name:       "users",
		IDColumn:   "user_id",
		Columns:    []string{"user_id", "username", "password_digest", "role"},
		Insertable: []string{"username", "password_digest", "role"},
		// password_digest deliberately excluded: digests are set at creation
		// and never reachable through a field map. Role updates are confined
		// to the admin-gated user management routes.
		Updatable: []string{"username", "role"},
	},
	"products": {
		Name:       "products",
		IDColumn:   "product_id",
		Columns:    []string{"product_id", "product_name", "category", "unit", "unit_price", "reorder_level", "status"},
		Insertable: []string{"product_name", "category", "unit", "unit_price", "reorder_level", "status"},
		Updatable:  []string{"product_name", "category", "unit", "unit_price", "reorder_level", "status"},
	},
	"suppliers": {
		Name:       "suppliers",
		IDColumn:   "supplier_id",
		Columns:    []string{"supplier_id", "supplier_name", "contact_info", "address"},
		Insertable: []string{"supplier_name", "contact_info", "address"},
		Updatable:  []string{"supplier_name", "contact_info", "address"},
	},
	"customers": {
		Name:       "customers",
		IDColumn:   "customer_id",
		Columns:    []string{"customer_id", "customer_name", "contact_info"},
		Insertable: []string{"customer_name", "contact_info"},
		Updatable:  []string{"customer_name", "contact_info"},
	},
	"inventory_transactions": {
		Name:       "inventory_transactions",
		IDColumn:   "transaction_id",
		Columns:    []string{"transaction_id", "product_id", "transaction_type", "quantity", "supplier_id", "customer_id", "user_id"},
		Insertable: []string{"product_id", "transaction_type", "quantity", "supplier_id", "customer_id", "user_id"},
		Updatable:  []string{"transaction_type", "quantity", "supplier_id", "customer_id", "user_id"},
	},
}

// schemaPostgres and schemaSQLite hold the DDL ensured at startup. Proper
// migrations are out of scope; the schema is additive-only.
var schemaPostgres = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id SERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_digest TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'staff'
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id SERIAL PRIMARY KEY,
		product_name TEXT NOT NULL,
		category TEXT,
		unit TEXT,
		unit_price NUMERIC,
		reorder_level INTEGER NOT NULL DEFAULT 10,
		status TEXT NOT NULL DEFAULT 'active'
	)`,
	`CREATE TABLE IF NOT EXISTS suppliers (
		supplier_id SERIAL PRIMARY KEY,
		supplier_name TEXT NOT NULL,
		contact_info TEXT,
		address TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id SERIAL PRIMARY KEY,
		customer_name TEXT NOT NULL,
		contact_info TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_transactions (
		transaction_id SERIAL PRIMARY KEY,
		product_id INTEGER NOT NULL REFERENCES products(product_id),
		transaction_type TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		supplier_id INTEGER REFERENCES suppliers(supplier_id),
		customer_id INTEGER REFERENCES customers(customer_id),
		user_id INTEGER REFERENCES users(user_id)
	)`,
}

var schemaSQLite = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_digest TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'staff'
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_name TEXT NOT NULL,
		category TEXT,
		unit TEXT,
		unit_price REAL,
		reorder_level INTEGER NOT NULL DEFAULT 10,
		status TEXT NOT NULL DEFAULT 'active'
	)`,
	`CREATE TABLE IF NOT EXISTS suppliers (
		supplier_id INTEGER PRIMARY KEY AUTOINCREMENT,
		supplier_name TEXT NOT NULL,
		contact_info TEXT,
		address TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_name TEXT NOT NULL,
		contact_info TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_transactions (
		transaction_id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL REFERENCES products(product_id),
		transaction_type TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		supplier_id INTEGER REFERENCES suppliers(supplier_id),
		customer_id INTEGER REFERENCES customers(customer_id),
		user_id INTEGER REFERENCES users(user_id)
	)`,
}

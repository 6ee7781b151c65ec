// Package storage provides the data-access gateway for the stockroom server.
//
// # Overview
//
// The gateway is a generic, table-driven CRUD layer over a relational
// database. Every table it may touch is declared up front in the Tables
// registry together with its id column and the allow-lists of insertable and
// updatable columns; the gateway refuses identifiers outside the registry,
// and all values travel through driver placeholders. That combination is the
// SQL-injection guard for a field-map driven API.
//
//	gw, err := storage.OpenGateway(cfg, logger, metrics)
//	rec, err := gw.Insert(ctx, "products", map[string]interface{}{
//		"product_name": "bolt M6",
//		"unit_price":   0.12,
//	})
//
// # Backends
//
// Two drivers are supported: postgres (lib/pq) for production and sqlite
// (mattn/go-sqlite3) for small or single-node deployments. The schema is
// ensured with CREATE TABLE IF NOT EXISTS at startup.
//
// # Caching
//
// NewCachedGateway layers an optional two-tier read cache (in-process LRU,
// then redis) over Get and List for inventory tables. Any write to a table
// drops its cached entries. The users table is never cached.
package storage

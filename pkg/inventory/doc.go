// Package inventory implements the stock-keeping domain: products,
// suppliers, customers, and the transaction ledger.
//
// # Overview
//
// The Service validates and defaults client field maps before handing them
// to the storage gateway. Every entity declares which columns clients may
// set; unknown keys are rejected as validation errors rather than silently
// dropped.
//
// The Sweeper is a cron job that computes on-hand quantities from the
// transaction ledger and logs a warning for every active product below its
// reorder level.
//
// # Related Packages
//
//   - pkg/storage: the generic data-access gateway
//   - pkg/api: HTTP handlers over the Service
package inventory

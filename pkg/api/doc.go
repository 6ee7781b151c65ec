// Package api implements the HTTP surface of the inventory backend.
//
// # Overview
//
// The Server wires gorilla/mux routes to the auth and inventory services.
// Signup and login are public (behind a per-IP throttle); everything under
// /api/v1 requires a bearer token, and user management additionally
// requires the admin role.
//
// # Routes
//
//	POST /signup
//	POST /login
//
//	GET/POST       /api/v1/users            (admin)
//	PUT/DELETE     /api/v1/users/{id}       (admin)
//	GET/POST       /api/v1/products
//	GET/PUT/DELETE /api/v1/products/{id}
//	GET/POST       /api/v1/suppliers
//	GET/PUT/DELETE /api/v1/suppliers/{id}
//	GET/POST       /api/v1/customers
//	GET/PUT/DELETE /api/v1/customers/{id}
//	GET/POST       /api/v1/transactions
//	GET/PUT/DELETE /api/v1/transactions/{id}
//
// Error responses are JSON bodies of the form {"msg": "..."}.
//
// # Related Packages
//
//   - pkg/auth: signup, login, token verification
//   - pkg/inventory: entity validation and persistence
//   - pkg/middleware: auth gate, role guard, throttle
package api

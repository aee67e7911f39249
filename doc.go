// Package main provides the entry point for the shop administration service.
// It runs a web server using the Fiber framework that exposes a REST API for
// managing users, products and permissions. Every protected endpoint is
// guarded by a permission check against the authenticated user, and sessions
// are carried as signed time-limited tokens. The application uses gorm for
// data persistence.
package main

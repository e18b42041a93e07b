// Package repo contains PostgreSQL implementations of repository interfaces.
//
// This package implements the ports defined in src/core/ports.
// Repositories hold no connection of their own: every method receives the
// ports.Session of the current unit of work, so all statements of a request
// share one transaction.
//
// Naming convention:
//   - Files: <entity>_repo.go (e.g., item_repo.go, user_repo.go)
//   - Types: <Entity>Repository (e.g., ItemRepository, UserRepository)
package repo

// Package domain contains the core domain model for the application.
//
// This package defines:
//   - Entities: Item and User, the records behind the CRUD routes
//   - Input types with their own Validate methods
//   - Domain Errors: business rule violations and configuration failures
//
// Rules for this package:
//   - No external dependencies except the standard library
//   - No infrastructure concerns (database, HTTP, etc.)
package domain

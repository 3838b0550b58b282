// Package backend provides the Shree Steel API server.

// This package contains the main application entry point. The actual API
// documentation is organized into subpackages:

// - internal/handlers: HTTP request handlers for all API endpoints
// - internal/models: Data models and database schemas
// - internal/estimate: Grill fabrication cost estimation engine
// - internal/repository: Database access for submissions and visits
// - internal/auth: Admin authentication service
// - internal/useragent: User agent parsing for visit analytics
// - internal/database: Database connection and migrations
// - internal/middleware: HTTP middleware (rate limiting, auth, metrics)
// - internal/cache: Redis connection and helpers
// - internal/telemetry: Distributed tracing setup
// - internal/seed: Development data seeding

// See the individual package documentation for detailed API reference.
package backend

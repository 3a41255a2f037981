// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// The central piece is the TaskService, which owns the ordered-task-list
// invariant: every write to a task list flows through it, and it is the only
// component that assigns positions. It coordinates the authorization policy
// (internal/service/authz), identity claims (internal/service/auth), the
// task store and the audit recorder, applying transactional boundaries where
// an operation must be atomic.
//
// Services receive dependencies through constructor injection and translate
// store-level errors into application-level errors; the API layer maps those
// onto HTTP status codes.
package service

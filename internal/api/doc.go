// Package api contains the HTTP handlers, request/response models, and error
// mapping for the public REST surface. Handlers stay thin: they decode and
// validate requests, delegate to the service layer, and translate the
// resulting domain errors into sanitized HTTP responses.
package api

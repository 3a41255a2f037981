// Package mocks provides hand-written test doubles for the interfaces used
// across handler and middleware tests. Each mock exposes optional Fn fields
// for per-test behavior and simple default fields for the common cases.
package mocks

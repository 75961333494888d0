// Package main provides the entry point for the studiokasse service. It runs
// a web server using the Fiber framework serving a JSON API for the books of
// a freelancer studio: deposits, appointments with automatic settlement of
// the studio share, a cash ledger and a monthly per-freelancer report. The
// application uses gorm for data persistence.
package main

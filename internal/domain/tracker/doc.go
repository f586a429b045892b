// Package tracker holds the job-search entities and the validation rules that
// the storage schema used to enforce with CHECK clauses.
//
// Every Validate* function must pass before a write reaches the store. They
// return *InvalidError so callers can map them to validation failures.
package tracker

// Package aggregates contains infrastructure implementations of domain aggregate contracts.
//
// Implementations in this package compose table-level repos from internal/data/repos
// and own transaction boundaries for invariant-critical write operations. Progress
// writes for one user also hold the per-user lock for the whole transaction.
package aggregates

// Package aggregates defines the write boundaries of the progress engine.
//
// Contracts here carry no persistence details. Implementations live in
// internal/data/aggregates and own their transactions.
package aggregates

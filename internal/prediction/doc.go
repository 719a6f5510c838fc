// Package prediction implements the heuristic match prediction engine.
//
// The pipeline is Score -> ToOdds -> SelectOutcome for a single fixture, followed
// optionally by Diversify over a day's batch. Linear is a separate, lighter mode
// that only needs form, expected goals, home advantage and red-card risk per side.
//
// Every function here is pure apart from Diversify, which rewrites the predictions
// it is given. Callers must not diversify overlapping batches concurrently.
package prediction

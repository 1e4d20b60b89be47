// Package engine implements the reconciliation pipeline for stuck inventory
// reservations: select the stuck moves, snapshot the affected products,
// release the reservations in batches, and report the availability deltas.
//
// The pipeline is split across an explicit two-step API. Plan performs the
// read-only half and produces a PlanReport the operator can review (and
// persist as a JSON artifact); Apply consumes a PlanReport, runs the
// mutating release phase, and produces an ApplyReport with the deltas.
package engine

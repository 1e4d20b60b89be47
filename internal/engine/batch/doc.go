// Package batch splits a slice of work items into fixed-size chunks and
// applies an operation to each chunk in order.
//
// The release phase of a reconciliation run uses it to bound the scope of
// every mutating ERP call: one oversized call can hit the server's request
// timeout, while ceil(N/size) bounded calls cannot. Progress callbacks fire
// after each chunk so the caller can report "Processed X/Y" as the run
// advances.
package batch

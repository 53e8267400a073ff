// Package limlog provides an asynchronous, high-throughput structured
// logger for latency-sensitive applications.
//
// A producer goroutine that emits a record pays only the cost of formatting
// bytes into its own single-producer/single-consumer ring buffer; all file
// formatting, rotation, and durability work happens on a single background
// goroutine. There is no per-record lock on the producer's hot path.
//
// Features:
//   - Per-goroutine SPSC ring buffers coupled to one background sink
//   - Size-triggered file rotation with bounded backup retention
//   - Optional disk-space-aware backup pruning
//   - Six log levels: TRACE, DEBUG, INFO, WARN, ERROR, FATAL
//   - Optional call-chain tracing
//   - Graceful, drain-guaranteed shutdown
//
// Lim Log, adapted for Go.
package limlog

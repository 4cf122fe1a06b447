// Package gtidsets provides a format-parameterized string conversion
// framework, an interval-set engine, and the GTID set types built on both.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	gtidsets/            Root package with the Resource and Allocator types
//	├── conv/            Encode/decode engine: formats, targets, parser combinators
//	├── sets/            Interval containers, nested containers, set codecs
//	├── gtids/           GTID domain types: UUID, Tag, TSID, GTID, Set
//	├── adapter/         Server-facing GTID parsing with bounded diagnostics
//	├── errors/          Structured error types for debugging
//	└── cmd/gtidset/     CLI and interactive TUI over the set operations
//
// # Quick Start
//
// Parse a GTID set, operate on it, and print it back:
//
//	var res gtidsets.Resource
//	set, err := adapter.ParseSet(res, "3e11fa47-71ca-11e1-9e33-c80aa9429562:1-5:10")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	other, _ := adapter.ParseSet(res, "3e11fa47-71ca-11e1-9e33-c80aa9429562:4-12")
//	if err := set.InplaceUnion(other); err != nil {
//	    log.Fatal(err)
//	}
//	text, _ := adapter.FormatSet(set)
//	fmt.Println(text) // "3E11FA47-71CA-11E1-9E33-C80AA9429562:1-12"
//
// # Conversion Framework
//
// Package conv separates what is converted, which format is used, and where
// the bytes go. Formats form a fallback chain (Debug falls back to Text,
// FixintBinary to Binary); the resolver picks the most specific codec a type
// provides. One encoder implementation serves both size counting and byte
// writing through the Target type, so growable outputs are sized exactly
// before a single write pass.
//
// # Interval Sets
//
// Package sets keeps every container in normal form: intervals non-empty,
// sorted, and non-adjacent. Bulk operations merge two ordered sequences in
// one pass, and containers built on resources that compare equal can donate
// storage to each other without copying. After an allocation failure the
// container is left between its old value and the correct result, so
// callers can retry or abandon safely.
//
// # Thread Safety
//
// No package keeps internal shared state. Operations on disjoint values are
// independent and need no synchronization; a Resource shared across
// goroutines must itself be thread-safe.
package gtidsets

// Package gtids models global transaction identifiers. A source is a
// server UUID, optionally refined by a short tag; a GTID pairs a source
// with a sequence number; a Set maps every source to the interval set
// of sequence numbers seen from it.
//
// The types bind to the conv framework. The text form is the familiar
// "uuid:1-5:10,\nuuid:tag:1-3" notation, parsed through TextFormat;
// the binary form, parsed through BinaryFormat, exists in three wire
// versions selected by a Version policy.
package gtids

// Package cot implements the ingestion and normalization pipeline for
// Commitments of Traders positioning data.
//
// The pipeline turns raw CSV text into a canonical, immutable sequence of
// position records in five stages: column resolution against a declarative
// alias table, row normalization with typed coercion, per-instrument grouping
// with delta derivation, flattening into symbol-then-date order, and a pure
// query layer over the result.
//
// Row-level failures (unparseable date, missing symbol) drop the row and
// never abort the load. Pipeline-level failures (unresolvable required
// columns) abort the whole load with a SchemaError.
package cot

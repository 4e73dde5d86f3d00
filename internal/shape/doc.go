// Package shape renders API records into bounded tool responses.
//
// Every response is shaped along two axes: detail (concise keeps only
// identifying fields, detailed keeps the full record) and format (indented
// JSON or markdown). Both formats carry the same fields for a given detail
// level.
//
// Output is capped at a hard character budget. Listings never truncate in
// the middle of a record: whole records are dropped from the tail until the
// output fits, and the result reports how many were omitted. Shaping is
// deterministic, so identical input and options always cut at the same
// boundary.
package shape

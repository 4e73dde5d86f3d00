// Package filter builds Vikunja filter query parameters and validates label
// predicate combinations before any request is issued.
//
// The API's filter grammar takes repeated filter_by/filter_value/
// filter_comparator parameters joined by a single filter_concat combinator.
// One query therefore supports either AND or OR, never both; predicate sets
// mixing the two are rejected locally, as are empty sets.
package filter

// Package daterange parses the timezone-qualified date boundaries given on the
// command line and answers whether an instant falls inside them.
//
// Dates are naive ISO-8601 strings (2024-01-25, 2024-01-25T10:30,
// 2024-01-25 10:30:00) localized in an IANA zone and converted once to UTC.
// A [Range] is half-open: Since is inclusive, Until is exclusive.
package daterange

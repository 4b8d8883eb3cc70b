// Package timezone pins every wall-clock value the reservation service sees
// to APP_TIMEZONE (an IANA name such as "Asia/Jakarta").
//
// Visit dates are calendar dates without a time of day. They are parsed at
// midnight in the park's zone and compared by their YYYY-MM-DD rendering.
// Capacity lookups without a date use the park's today, not the server's.
//
// An empty or unknown APP_TIMEZONE falls back to UTC with a log line.
package timezone

// Package logger provides slog attribute helpers with consistent keys for
// the attributes this module logs. Helpers taking values that may be
// absent return an empty Attr for the zero value, so call sites never
// need nil or empty checks.
package logger

// Package types defines the domain records, enumerations, configuration and
// standard errors for the pantry storage system. Repositories in
// internal/sqlite accept and return these types; they carry no persistence
// logic of their own.
package types

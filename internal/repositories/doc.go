// Package repositories provides data access over the sqlite database.
//
// The database records download history only. The JSON record set remains
// the canonical metadata document; history exists so repeated runs can skip
// media that was already fetched.
package repositories

// Package models defines the data model for the playlist sync engine: the
// persisted Video record, download kinds, the ISO-8601 duration parser, and
// the failure taxonomy with its append-only collector.
package models

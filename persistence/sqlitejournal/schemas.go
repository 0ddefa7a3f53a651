package sqlitejournal

import "embed"

// sqlSchemas is an embedded file system containing this package's SQL
// migration files, embedded at compile time for portability.
//
//go:embed migrations/*.sql
var sqlSchemas embed.FS

// LatestMigrationVersion is the latest migration version of the
// journal/snapshot schema.
//
// NOTE: This MUST be updated when a new migration is added.
const LatestMigrationVersion uint = 1

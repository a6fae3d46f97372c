// Package database opens the local SQLite file used by the message journal.
//
// Open applies WAL mode and a busy timeout through the go-sqlite3
// connection string, limits the pool to one connection and restricts the
// file to 0600. Migrate applies the versioned .up.sql files of an fs.FS
// (normally migrations.FS), each in its own transaction, tracking them in
// a schema_migrations table.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Journal.Path, WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
package database

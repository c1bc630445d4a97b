// Package database provides SQLite connectivity for the platform sandbox.
//
// This package manages:
//   - Database connection with WAL mode for file databases
//   - Private in-memory databases for tests (Path ":memory:")
//   - Schema migrations read from an fs.FS
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    log.Fatal(err)
//	}
//
// Migrations come in pairs, YYYYMMDD_HHMMSS_description.up.sql and
// .down.sql, and are applied in version order.
package database

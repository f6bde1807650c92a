// Package database provides the SQLite connection and schema migrations
// backing tasktrack's users, tasks and audit trail.
//
// Usage:
//
//	db, err := database.Open(ctx, database.ConfigFrom(cfg.Database))
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
//
// Migration files live at the root of the supplied fs.FS and are named
// YYYYMMDD_HHMMSS_description.up.sql with a matching .down.sql.
// All queries use parameterised statements. The database file is chmod 0600.
package database

// Package core provides the record store and the business logic around it.
//
// It has no HTTP or terminal dependencies; the web server and the lovedctl
// CLI both drive it through [Service].
//
// # Records and Tables
//
// A [Record] is one loved one: a name, two free-text dates and an optional
// photo path. A [Table] is the ordered list of records plus the fixed column
// set returned by [Columns]. Table operations ([Table.Append],
// [Table.Delete], [Table.Search]) return new tables and never modify their
// receiver.
//
// # Store
//
// [Store] holds the table in memory and writes the whole table through a
// [Backend] after every append or delete:
//
//	store := core.NewStore(core.NewCSVBackend("loved_ones.csv"))
//	if _, err := store.Load(ctx); err != nil {
//	    // the store is usable; it starts empty
//	}
//	rec, err := store.Append(ctx, core.Record{Name: "Alice", ...})
//	_, err = store.Delete(ctx, rec.ID)
//
// Records are addressed by a generated ID. Positional deletes remain
// available through [Store.DeleteAt] for the CLI.
//
// # Backends
//
// [CSVBackend] reads and overwrites a flat CSV file. Older files that name
// the second column "currentdate" or "Birthdate" are normalized on load; a
// file that cannot be parsed loads as an empty table with a [*ParseError].
// [PostgresBackend] stores the same table in PostgreSQL.
//
// # Validation
//
// [Service.AddRecord] rejects input with an empty Name, Current Date or
// Special Date before anything reaches the store.
package core

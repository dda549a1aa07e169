// Package history records publish runs in a SQLite database so operators can
// see when an album was last published, where to, and whether it worked.
//
// The database lives at <state_dir>/history.db. Schema changes ship as
// embedded migrations applied in order on Open.
package history

// Package publish drives a single publish of an album through a template.
//
// A Planner resolves the template (explicit option, then the album record,
// then the configured default) and the destination (explicit option, then
// the album record), renders, and optionally saves the resolved choices back
// to the album record. Progress is reported to listeners registered for the
// call, in registration order; a failing or panicking listener is logged and
// never aborts the publish.
package publish

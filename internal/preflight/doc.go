// Package preflight provides filesystem readiness checks for folio.
//
// These checks run in two contexts:
//   - "folio publish" calls RunAll before rendering. If any check fails the
//     publish stops before touching the destination.
//   - "folio doctor" uses the individual check functions together with
//     CheckConfig to display the health of the configured directories.
package preflight

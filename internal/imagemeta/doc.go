// Package imagemeta describes a single image file in an album: its format and
// pixel geometry, read from the file header, plus the user-editable title and
// description kept in a JSON sidecar next to the file.
//
// Geometry and format are always re-derived from the live file. The sidecar
// only ever contributes title and description, and a sidecar that cannot be
// parsed is ignored rather than failing the load.
package imagemeta

// Package album keeps a directory's persisted album record consistent with the
// image files that actually exist in it.
//
// The record lives in <album>/.folio/record.json and holds album-level fields
// plus the ordered list of image filenames. Every load reconciles that list
// against the directory: filenames still on disk keep their previous order,
// newly discovered images are appended in lexicographic order, and vanished
// files are dropped. Per-image titles and descriptions live in sidecars owned
// by package imagemeta; the record refers to images by filename only.
//
// Writes go through an atomic rename and are guarded by an advisory lock on
// <album>/.folio/lock, so two folio processes never interleave record writes
// for the same album. Beyond that, last writer wins.
package album

// Package templates finds album templates and renders album data through them
// into a destination directory.
//
// A template is a directory. Files ending in .tmpl are executed with
// html/template and written without the suffix; files whose name starts with
// an underscore are partials available to every page. The optional image
// page (image.html.tmpl by default) is executed once per image into
// images/<token>.html. Everything else is copied verbatim as an asset. An
// optional template.toml manifest names and describes the template.
//
// Templates are looked up by path, then by name in the configured template
// directories, then among the built-in templates embedded in the binary.
package templates

// Package textutil derives page tokens and display captions from image
// filenames. Page tokens fold accents to ASCII so rendered URLs stay portable.
package textutil

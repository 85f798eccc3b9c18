// Package template defines the template engine seam the HTML surfaces
// render through. The pongo subpackage provides the pongo2 implementation.
package template

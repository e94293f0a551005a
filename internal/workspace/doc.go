// Package workspace manages the parse directory holding the JSON parse cache
// between the parse and generate stages. The directory is removed after a
// build unless the configuration asks to keep it.
package workspace

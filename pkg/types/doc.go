// Package types defines the Library, MovieTable and UserTable interfaces,
// the Movie and Credential entities, and the standard errors shared by the
// movielist backends and the interactive session.
package types

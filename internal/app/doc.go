// Package app contains the core application logic. It loads documents, binds
// them to a validator and produces check, evaluation and preamble output,
// decoupled from any specific entrypoint like a CLI.
package app

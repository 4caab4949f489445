// Package cli parses command-line arguments into the app configuration.
package cli

// Package types defines the plant-care entities, the partial-update patches
// applied to them, the storage configuration, and the standard errors shared
// by the store, the plant cache and the CLI.
package types

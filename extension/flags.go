// flags.go names the CLI flags shared across commands.
//
// Naming convention: Flag<PascalCaseName> matching the kebab-case flag.

package extension

const (
	// Boolean flags

	FlagDiff  = "diff"  // Show diffs between revisions
	FlagLocal = "local" // Use local scope (gitignored / local config)
	FlagRaw   = "raw"   // Output raw text without glamour rendering

	// String flags

	FlagBackend = "backend" // Revision store backend
	FlagFile    = "file"    // Read text from a file instead of stdin
	FlagMetrics = "metrics" // Prometheus listen address

	// Integer flags

	FlagDays  = "days"  // Days of history for stats
	FlagLimit = "limit" // Limit number of results
)

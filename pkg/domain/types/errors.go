package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures once, at the adapter boundary. Anything above
// the adapters checks tags with goerr.HasTag and never inspects message text.
var (
	// TagAccessDenied marks repository lookups rejected by the code host.
	// Fatal to the whole run; reconciliation never starts.
	TagAccessDenied = goerr.NewTag("access_denied")

	// TagInvalidCollection marks ticket operations rejected because the
	// target project does not exist or cannot be written to. Recoverable by
	// choosing a replacement project.
	TagInvalidCollection = goerr.NewTag("invalid_collection")

	// TagResolverExhausted marks a failed replacement-project resolution.
	// Fatal to the remaining run.
	TagResolverExhausted = goerr.NewTag("resolver_exhausted")
)

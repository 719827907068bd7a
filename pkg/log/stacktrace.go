package log

import (
	"github.com/cockroachdb/errors"
)

// extractStacktrace returns the first stack trace recorded in err's chain,
// or "" when no layer carries one.
func extractStacktrace(err error) string {
	for e := err; e != nil; e = errors.UnwrapOnce(e) {
		safeDetails := errors.GetSafeDetails(e).SafeDetails
		if len(safeDetails) > 0 && safeDetails[0] != "" {
			return safeDetails[0]
		}
	}
	return ""
}

package cdx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/pithecene-io/cdxq/types"
)

// classifyTransport maps a transport-level failure to a classification and a
// human-readable detail. Timeouts are distinguished from other failures
// (DNS, connection refused, TLS) so the caller can report the configured
// deadline rather than an opaque context error.
func classifyTransport(err error, timeout time.Duration) (types.Classification, string) {
	if errors.Is(err, context.DeadlineExceeded) {
		return types.ClassTimeout, fmt.Sprintf("timeout: request exceeded %s", timeout)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return types.ClassTimeout, fmt.Sprintf("timeout: request exceeded %s", timeout)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return types.ClassError, fmt.Sprintf("connection error: %v", opErr)
	}

	return types.ClassError, fmt.Sprintf("transport error: %v", err)
}

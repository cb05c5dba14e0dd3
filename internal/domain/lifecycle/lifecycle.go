// Package lifecycle holds process-wide lifecycle settings.
package lifecycle

import "time"

// DefaultTimeout bounds start and stop hooks of long-lived components.
const DefaultTimeout = 10 * time.Second

package analysis

import "errors"

// ErrHistoryDisabled is returned by History.List when no repository is configured.
var ErrHistoryDisabled = errors.New("analysis history is not configured")

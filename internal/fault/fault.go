package fault

import "go.uber.org/zap"

// Reporter receives non-fatal faults from the core. Implementations must
// never block or panic back into the caller.
type Reporter interface {
	ReportError(msg string, err error)
}

// ZapReporter adapts a zap logger to the Reporter interface.
type ZapReporter struct {
	Log *zap.Logger
}

func (r ZapReporter) ReportError(msg string, err error) {
	r.Log.Error(msg, zap.Error(err))
}

package tracing

import (
	"time"
)

// ReportExecutionForRE runs action and hands report a logger that carries
// the execution time along with the outcome.
func ReportExecutionForRE[R any, E error](log *Logger, action func() (R, E), report func(l *Logger, result R, err E)) (R, E) {
	start := time.Now()
	result, err := action()
	report(log.With(ExecutionTime, time.Since(start).Milliseconds()), result, err)
	return result, err
}

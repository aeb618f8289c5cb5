package tracing

import "time"

// ProfilePoint returns a func that logs msg at debug level together with the
// operation name and the time elapsed since ProfilePoint was called.
func ProfilePoint(log *Logger, msg, opname string, fields ...any) func() {
	start := time.Now()
	return func() {
		log.D(msg, append(fields, Operation, opname, ExecutionTime, time.Since(start).Milliseconds())...)
	}
}

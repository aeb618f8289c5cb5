package persistence

import (
	"fmt"

	"domainhub/sources/tracing"
)

type gormtracer struct {
	logger *tracing.Logger
}

func (w *gormtracer) Printf(format string, args ...interface{}) {
	w.logger.D("Database statement", tracing.SqlQuery, fmt.Sprintf(format, args...))
}

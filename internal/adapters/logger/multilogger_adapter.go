package logger_adapter

import (
	"analysis-service/internal/core/port"
)

// MultiLoggerAdapter рассылает каждую запись всем вложенным логгерам.
type MultiLoggerAdapter struct {
	loggers []port.LoggerPort
}

// NewMultiLoggerAdapter создает новый экземпляр адаптера.
func NewMultiLoggerAdapter(loggers ...port.LoggerPort) port.LoggerPort {
	return &MultiLoggerAdapter{loggers: loggers}
}

func (m *MultiLoggerAdapter) Info(msg string, fields port.Fields) {
	for _, l := range m.loggers {
		l.Info(msg, fields)
	}
}

func (m *MultiLoggerAdapter) Warn(msg string, fields port.Fields) {
	for _, l := range m.loggers {
		l.Warn(msg, fields)
	}
}

func (m *MultiLoggerAdapter) Error(msg string, err error, fields port.Fields) {
	for _, l := range m.loggers {
		l.Error(msg, err, fields)
	}
}

func (m *MultiLoggerAdapter) Debug(msg string, fields port.Fields) {
	for _, l := range m.loggers {
		l.Debug(msg, fields)
	}
}

func (m *MultiLoggerAdapter) WithFields(fields port.Fields) port.LoggerPort {
	next := make([]port.LoggerPort, 0, len(m.loggers))
	for _, l := range m.loggers {
		next = append(next, l.WithFields(fields))
	}
	return &MultiLoggerAdapter{loggers: next}
}

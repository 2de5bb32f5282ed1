package generator

import (
	"github.com/Shimmur/loggen/reporter"
	log "github.com/sirupsen/logrus"
)

// An ErrorSink is told about every worker that stops on an error.
type ErrorSink interface {
	WorkerFailed(service string, err error)
}

// LogSink logs worker failures.
type LogSink struct{}

func (LogSink) WorkerFailed(service string, err error) {
	log.Errorf("Error generating logs for %s: %s", service, err)
}

// ReportingSink logs worker failures and counts them on an EventReporter.
type ReportingSink struct {
	Reporter *reporter.EventReporter
}

func NewReportingSink(rptr *reporter.EventReporter) *ReportingSink {
	return &ReportingSink{Reporter: rptr}
}

func (s *ReportingSink) WorkerFailed(service string, err error) {
	LogSink{}.WorkerFailed(service, err)
	s.Reporter.Incr()
}

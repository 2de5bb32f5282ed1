package generator

import (
	"errors"
	"testing"

	"github.com/Shimmur/loggen/reporter"
	. "github.com/smartystreets/goconvey/convey"
)

func Test_Sinks(t *testing.T) {
	Convey("Error sinks", t, func() {
		err := &WorkerError{Service: "auth-service", Err: errors.New("disk full")}

		Convey("LogSink logs the failure", func() {
			capture := LogCapture(func() {
				LogSink{}.WorkerFailed("auth-service", err)
			})

			So(capture, ShouldContainSubstring, "Error generating logs for auth-service")
			So(capture, ShouldContainSubstring, "disk full")
		})

		Convey("ReportingSink also counts it", func() {
			rptr := reporter.NewEventReporter(reporter.Config{}, "LoggenWorkerFailed")
			sink := NewReportingSink(rptr)

			LogCapture(func() {
				sink.WorkerFailed("auth-service", err)
				sink.WorkerFailed("user-service", err)
			})

			So(rptr.Count(), ShouldEqual, 2)
		})
	})
}

func Test_ServiceNames(t *testing.T) {
	Convey("ServiceNames()", t, func() {
		Convey("starts with the built-in names", func() {
			So(ServiceNames(3), ShouldResemble, []string{"auth-service", "user-service", "order-service"})
		})

		Convey("numbers the services past the built-in list", func() {
			names := ServiceNames(32)
			So(len(names), ShouldEqual, 32)
			So(names[30], ShouldEqual, "microservice-31")
			So(names[31], ShouldEqual, "microservice-32")
		})

		Convey("never repeats a name", func() {
			seen := make(map[string]bool)
			for _, name := range ServiceNames(100) {
				So(seen[name], ShouldBeFalse)
				seen[name] = true
			}
		})

		Convey("returns nothing for zero", func() {
			So(ServiceNames(0), ShouldBeEmpty)
		})
	})
}

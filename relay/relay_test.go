package relay

import (
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/Shimmur/loggen/reporter"
	log "github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
)

type recordingOutput struct {
	lock    sync.Mutex
	Lines   []string
	Stopped bool
}

func (o *recordingOutput) Log(line string) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.Lines = append(o.Lines, line)
}

func (o *recordingOutput) Stop() {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.Stopped = true
}

// receiveOne waits up to two seconds for a single datagram
func receiveOne(conn net.PacketConn) []byte {
	So(conn.SetReadDeadline(time.Now().Add(2*time.Second)), ShouldBeNil)

	buf := make([]byte, 8192)
	n, _, err := conn.ReadFrom(buf)
	So(err, ShouldBeNil)
	So(n, ShouldBeGreaterThan, 0)

	return buf[:n]
}

func Test_levelOf(t *testing.T) {
	Convey("levelOf()", t, func() {
		So(levelOf("2024-03-09T14:05:07.250Z [ERROR] [auth-service] boom"), ShouldEqual, log.ErrorLevel)
		So(levelOf("2024-03-09T14:05:07.250Z [WARN] [auth-service] slow"), ShouldEqual, log.WarnLevel)
		So(levelOf("2024-03-09T14:05:07.250Z [INFO] [auth-service] ok"), ShouldEqual, log.InfoLevel)
		So(levelOf("no marker at all"), ShouldEqual, log.InfoLevel)

		Convey("only looks at the head of the line", func() {
			line := "2024-03-09T14:05:07.250Z [INFO] [auth-service] [trace_id=x] said [ERROR]"
			So(levelOf(line), ShouldEqual, log.InfoLevel)
		})
	})
}

func Test_UDPRelay(t *testing.T) {
	Convey("UDPRelay", t, func() {
		conn, err := net.ListenPacket("udp", "127.0.0.1:0")
		So(err, ShouldBeNil)
		Reset(func() { conn.Close() })

		relay, err := NewUDPRelay(conn.LocalAddr().String(), map[string]string{
			"ServiceName": "order-service",
			"Environment": "loadtest",
		})
		So(err, ShouldBeNil)

		Convey("ships the line as a JSON payload with its labels", func() {
			line := "2024-03-09T14:05:07.250Z [WARN] [order-service] Slow query detected | query_time_ms=900"
			relay.Log(line)

			var payload map[string]interface{}
			So(json.Unmarshal(receiveOne(conn), &payload), ShouldBeNil)

			So(payload["Payload"], ShouldEqual, line)
			So(payload["Level"], ShouldEqual, "warning")
			So(payload["ServiceName"], ShouldEqual, "order-service")
			So(payload["Environment"], ShouldEqual, "loadtest")
			So(payload["Hostname"], ShouldNotBeEmpty)
			So(payload["Timestamp"], ShouldNotBeEmpty)
		})

		Convey("keeps a Hostname label it was given", func() {
			relay, err := NewUDPRelay(conn.LocalAddr().String(), map[string]string{"Hostname": "loadgen-01"})
			So(err, ShouldBeNil)

			relay.Log("2024-03-09T14:05:07.250Z [ERROR] [order-service] boom")

			var payload map[string]interface{}
			So(json.Unmarshal(receiveOne(conn), &payload), ShouldBeNil)
			So(payload["Hostname"], ShouldEqual, "loadgen-01")
			So(payload["Level"], ShouldEqual, "error")
		})
	})
}

func Test_Throttle(t *testing.T) {
	Convey("Throttle", t, func() {
		drops := reporter.NewEventReporter(reporter.Config{}, "LoggenRelayRateLimited")
		next := &recordingOutput{}

		throttle, err := NewThrottle(next, "auth-service", 2, time.Hour, drops)
		So(err, ShouldBeNil)

		Convey("passes lines up to the limit and counts the rest", func() {
			for _, line := range []string{"one", "two", "three", "four"} {
				throttle.Log(line)
			}

			So(next.Lines, ShouldResemble, []string{"one", "two"})
			So(throttle.Dropped(), ShouldEqual, 2)
			So(drops.Count(), ShouldEqual, 2)
		})

		Convey("works without a reporter", func() {
			throttle, err := NewThrottle(next, "auth-service", 1, time.Hour, nil)
			So(err, ShouldBeNil)

			throttle.Log("one")
			throttle.Log("two")
			So(throttle.Dropped(), ShouldEqual, 1)
		})

		Convey("stops the next output", func() {
			throttle.Stop()
			So(next.Stopped, ShouldBeTrue)
		})
	})
}

func Test_Config(t *testing.T) {
	Convey("Config", t, func() {
		drops := reporter.NewEventReporter(reporter.Config{}, "LoggenRelayRateLimited")

		Convey("is disabled without an address", func() {
			So(Config{}.Enabled(), ShouldBeFalse)
			So(Config{Address: "127.0.0.1:514"}.Enabled(), ShouldBeTrue)
		})

		Convey("throttles when a limit is set", func() {
			cfg := Config{Address: "127.0.0.1:9725", TokenLimit: 10, Interval: time.Second}
			output := cfg.NewOutput(drops, "auth-service")
			defer output.Stop()

			So(output, ShouldHaveSameTypeAs, &Throttle{})
		})

		Convey("returns the bare relay without a limit", func() {
			cfg := Config{Address: "127.0.0.1:9725"}
			So(cfg.NewOutput(drops, "auth-service"), ShouldHaveSameTypeAs, &UDPRelay{})
		})

		Convey("returns nil when the address is unusable", func() {
			cfg := Config{Address: "not-an-address"}
			So(cfg.NewOutput(drops, "auth-service"), ShouldBeNil)
		})
	})
}

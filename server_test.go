package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Shimmur/loggen/audit"
	"github.com/Shimmur/loggen/content"
	"github.com/Shimmur/loggen/generator"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
)

func post(url string, body string) (*http.Response, map[string]interface{}) {
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	So(err, ShouldBeNil)
	return resp, decode(resp)
}

func get(url string) (*http.Response, map[string]interface{}) {
	resp, err := http.Get(url)
	So(err, ShouldBeNil)
	return resp, decode(resp)
}

func decode(resp *http.Response) map[string]interface{} {
	defer resp.Body.Close()

	var body map[string]interface{}
	So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
	return body
}

func Test_Server(t *testing.T) {
	Convey("The control plane", t, func() {
		tmpDir, err := os.MkdirTemp("", "server")
		So(err, ShouldBeNil)
		outputDir := filepath.Join(tmpDir, "logs")

		engine := generator.NewEngine(content.NewGenerator())
		registry := prometheus.NewRegistry()
		registry.MustRegister(generator.NewCollector(engine))

		server := &Server{
			Engine:      engine,
			Auditor:     audit.NewAuditor(audit.NewDirListDiscoverer(outputDir)),
			OutputDir:   outputDir,
			MaxServices: 1000,
			Gatherer:    registry,
		}
		ts := httptest.NewServer(server.Handler())

		Reset(func() {
			engine.RequestCancel()
			if run := engine.Current(); run != nil {
				LogCapture(func() { run.Wait() })
			}
			ts.Close()
			os.RemoveAll(tmpDir)
		})

		Convey("serves the control page", func() {
			resp, err := http.Get(ts.URL + "/")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, 200)
			So(resp.Header.Get("Content-Type"), ShouldStartWith, "text/html")
			So(string(body), ShouldContainSubstring, "Log Generator")
		})

		Convey("reports idle progress before any run", func() {
			resp, body := get(ts.URL + "/api/progress")
			So(resp.StatusCode, ShouldEqual, 200)
			So(body["running"], ShouldBeFalse)
			So(body["bytes_written"], ShouldEqual, 0.0)
			So(body["percent"], ShouldEqual, 0.0)
			So(body, ShouldContainKey, "services_failed")
			So(body, ShouldContainKey, "cancel_requested")
		})

		Convey("audits an empty output dir", func() {
			resp, body := get(ts.URL + "/api/audit")
			So(resp.StatusCode, ShouldEqual, 200)
			So(body["bytes"], ShouldEqual, 0.0)
		})

		Convey("fails the audit when the output dir can't be read", func() {
			So(os.WriteFile(outputDir, []byte("not a dir"), 0644), ShouldBeNil)

			resp, body := get(ts.URL + "/api/audit")
			So(resp.StatusCode, ShouldEqual, 500)
			So(body["error"], ShouldContainSubstring, "discovery failed")
		})

		Convey("rejects bad start requests", func() {
			cases := map[string]string{
				`not json`: "Invalid request body",
				`{"num_services": 0, "total_size_mb": 1, "file_max_size_mb": 1}`:              "Number of services must be between 1 and 1000",
				`{"num_services": 1001, "total_size_mb": 1, "file_max_size_mb": 1}`:           "Number of services must be between 1 and 1000",
				`{"num_services": 3, "total_size_mb": 0, "file_max_size_mb": 1}`:              "Total size must be greater than 0",
				`{"num_services": 3, "total_size_mb": 1, "file_max_size_mb": 0}`:              "File max size must be greater than 0",
				`{"num_services": 1, "total_size_mb": 17592186044416, "file_max_size_mb": 1}`: "Sizes must be at most",
				`{"num_services": 1, "total_size_mb": 1, "file_max_size_mb": 17592186044416}`: "Sizes must be at most",
			}

			for req, msg := range cases {
				resp, body := post(ts.URL+"/api/start", req)
				So(resp.StatusCode, ShouldEqual, 400)
				So(body["error"], ShouldStartWith, msg)
			}

			So(engine.Current(), ShouldBeNil)
		})

		Convey("runs a generation to completion", func() {
			resp, body := post(ts.URL+"/api/start",
				`{"num_services": 2, "total_size_mb": 1, "file_max_size_mb": 1}`)
			So(resp.StatusCode, ShouldEqual, 200)
			So(body["message"], ShouldEqual, "Started generating 1 MB of logs across 2 services")

			So(engine.Current().Wait(), ShouldBeNil)

			_, progress := get(ts.URL + "/api/progress")
			So(progress["running"], ShouldBeFalse)
			So(progress["target_bytes"], ShouldEqual, 1048576.0)
			So(progress["bytes_written"], ShouldBeGreaterThanOrEqualTo, 1048576.0)
			So(progress["services_done"], ShouldEqual, 2.0)

			Convey("and the audit matches what was written", func() {
				_, report := get(ts.URL + "/api/audit")
				So(report["bytes"], ShouldEqual, progress["bytes_written"])
				So(len(report["services"].([]interface{})), ShouldEqual, 2)
			})

			Convey("and the metrics show it", func() {
				resp, err := http.Get(ts.URL + "/metrics")
				So(err, ShouldBeNil)
				defer resp.Body.Close()

				body, err := io.ReadAll(resp.Body)
				So(err, ShouldBeNil)
				So(string(body), ShouldContainSubstring, "loggen_services_done 2")
			})
		})

		Convey("takes byte-exact sizes", func() {
			resp, body := post(ts.URL+"/api/start",
				`{"num_services": 2, "total_bytes": 5000, "file_max_bytes": 1000}`)
			So(resp.StatusCode, ShouldEqual, 200)
			So(body["message"], ShouldEqual, "Started generating 5000 bytes of logs across 2 services")

			So(engine.Current().Wait(), ShouldBeNil)
			So(engine.Snapshot().BytesWritten, ShouldBeGreaterThanOrEqualTo, 5000)

			files, err := filepath.Glob(filepath.Join(outputDir, "auth-service", "*_0001.log"))
			So(err, ShouldBeNil)
			So(files, ShouldNotBeEmpty)
		})

		Convey("refuses to start twice and stops on request", func() {
			huge := `{"num_services": 2, "total_size_mb": 1048576, "file_max_size_mb": 64}`

			resp, _ := post(ts.URL+"/api/start", huge)
			So(resp.StatusCode, ShouldEqual, 200)

			resp, body := post(ts.URL+"/api/start", huge)
			So(resp.StatusCode, ShouldEqual, 409)
			So(body["error"], ShouldEqual, "Generation is already running. Stop it first.")

			resp, body = post(ts.URL+"/api/stop", "")
			So(resp.StatusCode, ShouldEqual, 200)
			So(body["message"], ShouldEqual, "Stop signal sent. Generation will halt shortly.")

			So(engine.Current().Wait(), ShouldBeNil)

			_, progress := get(ts.URL + "/api/progress")
			So(progress["running"], ShouldBeFalse)
			So(progress["cancel_requested"], ShouldBeTrue)
		})

		Convey("only answers the methods it knows", func() {
			resp, err := http.Get(ts.URL + "/api/start")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusMethodNotAllowed)

			resp, err = http.Get(ts.URL + "/nope")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func Test_Wiring(t *testing.T) {
	Convey("Wiring up", t, func() {
		config := &Config{
			Environment:     "test",
			MaxServices:     10,
			BufferSize:      4096,
			FlushInterval:   8192,
			LogLevel:        "info",
			RelayTokenLimit: 5,
			RelayInterval:   time.Second,
			ReportInterval:  time.Minute,
		}

		Reset(func() {
			log.SetLevel(log.InfoLevel)
			LogCapture(func() {}) // restores stdout
		})

		Convey("configureLogging()", func() {
			Convey("rejects an unknown level", func() {
				config.LogLevel = "chatty"
				So(configureLogging(config), ShouldNotBeNil)
			})

			Convey("tees into the log file when one is set", func() {
				tmpDir, err := os.MkdirTemp("", "wiring")
				So(err, ShouldBeNil)
				defer os.RemoveAll(tmpDir)

				config.LogFile = filepath.Join(tmpDir, "loggen.log")
				config.LogFileMaxSizeMB = 1
				So(configureLogging(config), ShouldBeNil)

				log.Info("written to the log file")
				LogCapture(func() {}) // restores stdout

				data, err := os.ReadFile(config.LogFile)
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "written to the log file")
			})
		})

		Convey("newEngine() passes the config through", func() {
			engine := newEngine(config)
			So(engine.MaxServices, ShouldEqual, 10)
			So(engine.BufferSize, ShouldEqual, 4096)
			So(engine.FlushInterval, ShouldEqual, 8192)
			So(engine.Sink, ShouldHaveSameTypeAs, &generator.ReportingSink{})
			So(engine.NewOutput, ShouldBeNil)
		})

		Convey("newEngine() relays when an address is set", func() {
			config.RelayAddress = "127.0.0.1:9725"
			engine := newEngine(config)
			So(engine.NewOutput, ShouldNotBeNil)

			output := engine.NewOutput("auth-service")
			So(output, ShouldNotBeNil)
			output.Stop()
		})
	})
}

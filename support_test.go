package main

import (
	"bytes"
	"os"

	log "github.com/sirupsen/logrus"
)

// LogCapture logs for async testing where we can't get a nice handle on things
func LogCapture(fn func()) string {
	capture := &bytes.Buffer{}
	log.SetOutput(capture)
	fn()
	log.SetOutput(os.Stdout)

	return capture.String()
}

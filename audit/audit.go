package audit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/nxadm/tail"
	log "github.com/sirupsen/logrus"
)

// Archived files end in an underscore and a zero-padded rotation index
var archivedPattern = regexp.MustCompile(`_\d{4,}\.log$`)

type FileReport struct {
	Path     string `json:"path"`
	Bytes    uint64 `json:"bytes"`
	Lines    uint64 `json:"lines"`
	Archived bool   `json:"archived"`
}

type ServiceReport struct {
	Service string       `json:"service"`
	Files   []FileReport `json:"files"`
	Bytes   uint64       `json:"bytes"`
	Lines   uint64       `json:"lines"`
}

// A Report summarizes everything found under an output root.
type Report struct {
	Services []ServiceReport `json:"services"`
	Files    int             `json:"files"`
	Bytes    uint64          `json:"bytes"`
	Lines    uint64          `json:"lines"`
}

// An Auditor reads back generated output so it can be checked against the
// run's progress counters.
type Auditor struct {
	disco Discoverer
	cache *LineCache
}

// NewAuditor returns an Auditor with an in-memory cache of archived files.
func NewAuditor(disco Discoverer) *Auditor {
	return NewCachingAuditor(disco, NewLineCache(""))
}

func NewCachingAuditor(disco Discoverer, cache *LineCache) *Auditor {
	return &Auditor{disco: disco, cache: cache}
}

// Audit walks every service's files. File sizes come from the filesystem;
// line counts come from reading each file through a non-following tail.
func (a *Auditor) Audit() (*Report, error) {
	services, err := a.disco.Discover()
	if err != nil {
		return nil, err
	}

	report := &Report{}
	seen := make(map[string]bool)
	for _, service := range services {
		svcReport, vanished, err := a.auditService(service)
		if err != nil {
			return nil, err
		}

		// A rotation renamed a file between listing and reading it, so the
		// listing is stale. One fresh listing is enough to pick up the archive.
		if vanished {
			svcReport, _, err = a.auditService(service)
			if err != nil {
				return nil, err
			}
		}
		if svcReport == nil {
			continue
		}

		for _, file := range svcReport.Files {
			if file.Archived {
				seen[file.Path] = true
			}
		}

		report.Services = append(report.Services, *svcReport)
		report.Files += len(svcReport.Files)
		report.Bytes += svcReport.Bytes
		report.Lines += svcReport.Lines
	}

	if dropped := a.cache.Retain(seen); dropped > 0 {
		log.Debugf("Dropped %d audit cache entries for files that are gone", dropped)
	}
	if err := a.cache.Save(); err != nil {
		log.Warnf("Unable to save audit cache: %s", err)
	}

	return report, nil
}

// auditService returns nil when the service's files can't be listed. vanished
// is true when a listed file was gone by the time it was read; that file is
// left out of the report.
func (a *Auditor) auditService(service string) (*ServiceReport, bool, error) {
	logFiles, err := a.disco.LogFiles(service)
	if err != nil {
		log.Warnf("Failed to get logs for service %s: %s", service, err)
		return nil, false, nil
	}

	var vanished bool
	svcReport := &ServiceReport{Service: service}
	for _, filename := range logFiles {
		fileReport, err := a.auditFile(filename)
		if errors.Is(err, fs.ErrNotExist) {
			log.Debugf("Skipping %s, it moved during the audit", filename)
			vanished = true
			continue
		}
		if err != nil {
			return nil, false, err
		}

		svcReport.Files = append(svcReport.Files, *fileReport)
		svcReport.Bytes += fileReport.Bytes
		svcReport.Lines += fileReport.Lines
	}

	return svcReport, vanished, nil
}

// auditFile only reads archived files that aren't in the cache. The live
// file is always read.
func (a *Auditor) auditFile(filename string) (*FileReport, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", filename, err)
	}

	report := &FileReport{
		Path:     filename,
		Bytes:    uint64(info.Size()),
		Archived: archivedPattern.MatchString(filepath.Base(filename)),
	}

	if report.Archived {
		if lines, ok := a.cache.Lookup(filename, report.Bytes); ok {
			report.Lines = lines
			return report, nil
		}
	}

	report.Lines, err = countLines(filename)
	if err != nil {
		return nil, err
	}

	if report.Archived {
		a.cache.Store(filename, report.Bytes, report.Lines)
	}

	return report, nil
}

// countLines reads the file once from the top and stops at EOF
func countLines(filename string) (uint64, error) {
	tailed, err := tail.TailFile(filename, tail.Config{
		Follow: false, MustExist: true, Logger: log.StandardLogger(),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	defer func() {
		_ = tailed.Stop()
		tailed.Cleanup()
	}()

	var lines uint64
	for line := range tailed.Lines {
		if line.Err != nil {
			return lines, fmt.Errorf("failed to read %s: %w", filename, line.Err)
		}
		lines++
	}

	return lines, nil
}

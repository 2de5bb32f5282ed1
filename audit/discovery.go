package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// A Discoverer finds the services that have output and their log files.
type Discoverer interface {
	Discover() ([]string, error)
	LogFiles(service string) ([]string, error)
}

// DirListDiscoverer treats every directory under Dir as a service
type DirListDiscoverer struct {
	Dir string
}

func NewDirListDiscoverer(path string) *DirListDiscoverer {
	return &DirListDiscoverer{Dir: path}
}

func (d *DirListDiscoverer) Discover() ([]string, error) {
	entries, err := os.ReadDir(d.Dir)
	if err != nil {
		return nil, fmt.Errorf("discovery failed: failed to read dir %s: %w", d.Dir, err)
	}

	var services []string
	for _, entry := range entries {
		if entry.IsDir() {
			services = append(services, entry.Name())
		}
	}

	return services, nil
}

// LogFiles retrieves all the *.log files for the service, sorted by name
func (d *DirListDiscoverer) LogFiles(service string) ([]string, error) {
	baseDir := filepath.Join(d.Dir, service)

	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to find logs for %s: %w", service, err)
	}

	var logs []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".log") {
			logs = append(logs, filepath.Join(baseDir, entry.Name()))
		}
	}
	sort.Strings(logs)

	return logs, nil
}

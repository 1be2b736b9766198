package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

const (
	successReport = ".lastrun.success.json"
	failedReport  = ".lastrun.failed.json"
)

// writeRunReport records which symbols succeeded and why the others failed.
// Reports of a previous run are replaced so stale failures do not linger.
func writeRunReport(dir string, succeeded []string, failures []Failure) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if succeeded == nil {
		succeeded = []string{}
	}
	if failures == nil {
		failures = []Failure{}
	}

	for name, v := range map[string]any{successReport: succeeded, failedReport: failures} {
		p := filepath.Join(dir, name)
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(p, data, 0644); err != nil {
			return err
		}
	}
	log.WithFields(log.Fields{"dir": dir, "succeeded": len(succeeded), "failed": len(failures)}).Info("run report written")
	return nil
}

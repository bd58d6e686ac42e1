package preflight

import (
	"path/filepath"

	"ahn/internal/approot"
	"ahn/internal/config"
	"ahn/internal/pidfile"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// Failed reports whether a required check did not pass.
func (r Result) Failed() bool {
	return !r.Passed && !r.Optional
}

// RunAll executes every applicable check for root. pidPath is the resolved
// pid file location.
func RunAll(cfg *config.Config, root, pidPath string) []Result {
	if cfg == nil {
		return nil
	}
	detector := approot.NewDetector(cfg.Launch.Bootstrap)
	bootstrap := detector.BootstrapPath(root)
	if pidPath == "" {
		pidPath = pidfile.Resolve(root, "", cfg.Lifecycle.PidFileName, root)
	}

	results := []Result{CheckBootstrap(bootstrap)}
	results = append(results, CheckBinaries(requirements(cfg, bootstrap))...)
	results = append(results, CheckDirectoryAccess("Pid file directory", filepath.Dir(pidPath)))
	results = append(results, CheckCreatableDirectory("Daemon log directory", filepath.Dir(cfg.DaemonLogPath(root))))
	if cfg.History.Enabled {
		results = append(results, CheckCreatableDirectory("History directory", filepath.Dir(cfg.History.Path)))
	}
	return results
}

func requirements(cfg *config.Config, bootstrap string) []Requirement {
	var reqs []Requirement
	if interpreter := Interpreter(bootstrap); interpreter != "" {
		reqs = append(reqs, Requirement{
			Name:        "Bootstrap interpreter",
			Command:     interpreter,
			Description: "Runs " + filepath.Base(bootstrap),
		})
	}
	reqs = append(reqs, Requirement{
		Name:        "ps",
		Command:     "ps",
		Description: "Liveness probe fallback",
		Optional:    cfg.Lifecycle.LivenessProbe != config.ProbePS,
	})
	return reqs
}

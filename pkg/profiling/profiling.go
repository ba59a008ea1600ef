package profiling

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/clinicconnect/clinicconnect-api/config"
	"github.com/clinicconnect/clinicconnect-api/pkg/logger"
	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

const contentionSampleRate = 5

// sampleTypes maps O11Y_PROFILING_SAMPLE_TYPES entries to pyroscope profiles
var sampleTypes = map[string][]pyroscope.ProfileType{
	"cpu":           {pyroscope.ProfileCPU},
	"alloc_space":   {pyroscope.ProfileAllocSpace},
	"alloc_objects": {pyroscope.ProfileAllocObjects},
	"inuse_space":   {pyroscope.ProfileInuseSpace},
	"goroutines":    {pyroscope.ProfileGoroutines},
	"mutex":         {pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration},
	"block":         {pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration},
}

// InitProfiler starts continuous profiling when enabled. The returned
// function stops the profiler and is safe to call when profiling is off.
// Endpoint and upload interval are checked by config.Validate.
func InitProfiler(cfg config.ProfilingConfig, obs config.ObservabilityConfig, environment string) (func(), error) {
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return func() {}, nil
	}

	profiles, err := parseSampleTypes(cfg.SampleTypes)
	if err != nil {
		return nil, err
	}

	enableContentionProfiles(profiles)

	appName := strings.TrimSpace(cfg.AppName)
	if appName == "" {
		appName = obs.ServiceName
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: appName,
		ServerAddress:   cfg.Endpoint,
		UploadRate:      time.Duration(cfg.UploadIntervalSeconds) * time.Second,
		ProfileTypes:    profiles,
		Tags:            profileTags(obs, environment),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}

	logger.Info("Continuous profiling initialized",
		zap.String("application_name", appName),
		zap.String("endpoint", cfg.Endpoint),
		zap.Int("profile_types", len(profiles)),
	)

	return func() {
		if stopErr := profiler.Stop(); stopErr != nil {
			logger.Error("Failed to stop profiler", zap.Error(stopErr))
		}
	}, nil
}

// parseSampleTypes resolves a comma-separated list, dropping duplicates
func parseSampleTypes(value string) ([]pyroscope.ProfileType, error) {
	var profiles []pyroscope.ProfileType
	seen := map[pyroscope.ProfileType]bool{}

	for _, raw := range strings.Split(value, ",") {
		key := strings.ToLower(strings.TrimSpace(raw))
		if key == "" {
			continue
		}
		mapped, ok := sampleTypes[key]
		if !ok {
			return nil, fmt.Errorf("unsupported O11Y_PROFILING_SAMPLE_TYPES value: %q", key)
		}
		for _, p := range mapped {
			if !seen[p] {
				seen[p] = true
				profiles = append(profiles, p)
			}
		}
	}

	if len(profiles) == 0 {
		return nil, fmt.Errorf("O11Y_PROFILING_SAMPLE_TYPES selects no profiles")
	}
	return profiles, nil
}

// enableContentionProfiles turns on the runtime sampling that the mutex and
// block profiles read from; both are off by default
func enableContentionProfiles(profiles []pyroscope.ProfileType) {
	for _, p := range profiles {
		switch p {
		case pyroscope.ProfileMutexCount:
			runtime.SetMutexProfileFraction(contentionSampleRate)
		case pyroscope.ProfileBlockCount:
			runtime.SetBlockProfileRate(contentionSampleRate)
		}
	}
}

// profileTags labels every upload so profiles line up with traces of the
// same deployment
func profileTags(obs config.ObservabilityConfig, environment string) map[string]string {
	tags := map[string]string{
		"environment":     environment,
		"service_name":    obs.ServiceName,
		"namespace":       obs.ServiceNamespace,
		"service_version": obs.ServiceVersion,
	}
	if obs.ServiceInstanceID != "" {
		tags["instance"] = obs.ServiceInstanceID
	}
	return tags
}

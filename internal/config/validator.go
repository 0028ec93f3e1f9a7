package config

import (
	"fmt"
	"strings"
)

// Validate checks the config for:
//   - Required fields
//   - Non-negative concurrency and queue settings
//   - Known log level, encoding and output values
func Validate(cfg *ServiceConfig) error {
	if cfg.Version == "" {
		return fmt.Errorf("config: version is required")
	}
	var errs []string

	if cfg.Server.Addr == "" {
		errs = append(errs, "server.addr is required")
	}
	if cfg.Server.MaxBodyBytes < 0 {
		errs = append(errs, fmt.Sprintf("server.max_body_bytes must be positive, got %d", cfg.Server.MaxBodyBytes))
	}
	if cfg.Engine.Workers < 1 {
		errs = append(errs, fmt.Sprintf("engine.workers must be at least 1, got %d", cfg.Engine.Workers))
	}
	if cfg.Engine.QueueDepth < 1 {
		errs = append(errs, fmt.Sprintf("engine.queue_depth must be at least 1, got %d", cfg.Engine.QueueDepth))
	}
	if cfg.Engine.TimeoutMs < 1 {
		errs = append(errs, fmt.Sprintf("engine.timeout_ms must be at least 1, got %d", cfg.Engine.TimeoutMs))
	}
	if cfg.Diagnostic.MaxDepth < -1 {
		errs = append(errs, fmt.Sprintf("diagnostic.max_depth must be -1 or positive, got %d", cfg.Diagnostic.MaxDepth))
	}
	if cfg.Diagnostic.Concurrency < 0 {
		errs = append(errs, fmt.Sprintf("diagnostic.concurrency must not be negative, got %d", cfg.Diagnostic.Concurrency))
	}
	validateLog(cfg.Log, &errs)

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func validateLog(lc LogConf, errs *[]string) {
	switch strings.ToLower(lc.Level) {
	case "debug", "info", "warn", "error":
	default:
		*errs = append(*errs, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", lc.Level))
	}
	switch lc.Encoding {
	case "console", "json":
	default:
		*errs = append(*errs, fmt.Sprintf("log.encoding %q is not one of console, json", lc.Encoding))
	}
	switch lc.Output {
	case "stdout", "stderr":
	case "file":
		if lc.Path == "" {
			*errs = append(*errs, "log.path is required when log.output is file")
		}
	default:
		*errs = append(*errs, fmt.Sprintf("log.output %q is not one of stdout, stderr, file", lc.Output))
	}
}

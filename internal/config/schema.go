package config

// ServiceConfig is the top-level YAML structure.
type ServiceConfig struct {
	Version    string         `yaml:"version" json:"version"`
	Server     ServerConf     `yaml:"server" json:"server"`
	Engine     EngineConf     `yaml:"engine" json:"engine"`
	Diagnostic DiagnosticConf `yaml:"diagnostic" json:"diagnostic"`
	Log        LogConf        `yaml:"log" json:"log"`
}

// ServerConf holds HTTP listener settings.
type ServerConf struct {
	Addr           string `yaml:"addr" json:"addr"`
	ReadTimeoutMs  int    `yaml:"read_timeout_ms" json:"read_timeout_ms"`
	WriteTimeoutMs int    `yaml:"write_timeout_ms" json:"write_timeout_ms"`
	MaxBodyBytes   int64  `yaml:"max_body_bytes" json:"max_body_bytes"`
}

// EngineConf holds tunable concurrency settings.
type EngineConf struct {
	Workers    int `yaml:"workers" json:"workers"`
	QueueDepth int `yaml:"queue_depth" json:"queue_depth"`
	TimeoutMs  int `yaml:"timeout_ms" json:"timeout_ms"`
}

// DiagnosticConf tunes a single diagnostic run.
type DiagnosticConf struct {
	MaxDepth    int `yaml:"max_depth" json:"max_depth"`     // -1 = unbounded
	Concurrency int `yaml:"concurrency" json:"concurrency"` // <2 = sequential aggregation
}

// LogConf selects level, encoding and destination of the service log.
type LogConf struct {
	Level      string `yaml:"level" json:"level"`       // debug | info | warn | error
	Encoding   string `yaml:"encoding" json:"encoding"` // console | json
	Output     string `yaml:"output" json:"output"`     // stdout | stderr | file
	Path       string `yaml:"path" json:"path"`         // file output only
	MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" json:"max_age_days"`
}

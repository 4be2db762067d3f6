package pwquality

type PolicyReport struct {
	RetryDefault    int
	RootOverride    bool
	ConfigPath      string
	DefaultOptions  []string
	DebugDefault    bool
	AuditActive     bool
	AuditDropIfFull bool
	MetricsActive   bool
	LatencyActive   bool
}

func (m *Module) PolicyReport() PolicyReport {
	if m == nil {
		return PolicyReport{}
	}

	auditActive := m.config.Audit.Enabled && m.audit != nil

	return PolicyReport{
		RetryDefault:    m.config.Retry.DefaultLimit,
		RootOverride:    m.config.Policy.RootOverride,
		ConfigPath:      m.config.Quality.ConfigPath,
		DefaultOptions:  cloneStrings(m.config.Quality.DefaultOptions),
		DebugDefault:    m.config.Logging.Debug,
		AuditActive:     auditActive,
		AuditDropIfFull: auditActive && m.config.Audit.DropIfFull,
		MetricsActive:   m.metrics.Enabled(),
		LatencyActive:   m.metrics.LatencyEnabled(),
	}
}

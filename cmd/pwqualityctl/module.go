package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	pwquality "github.com/debarshiray/libpwquality"
	"github.com/debarshiray/libpwquality/execchecker"
)

const defaultCheckerProgram = "pwscore"

// buildModule assembles a controller module from the resolved configuration:
// the external checker command, quality defaults, and an optional JSON audit
// log. The returned closer drains the audit queue and releases the audit file.
func buildModule() (*pwquality.Module, func(), error) {
	program := viper.GetString("checker.program")
	if program == "" {
		program = defaultCheckerProgram
	}

	provider := execchecker.NewProvider(program, viper.GetStringSlice("checker.args")...)
	if timeout := viper.GetDuration("checker.timeout"); timeout != 0 {
		provider.Timeout = timeout
	}

	cfg := pwquality.DefaultConfig()
	if limit := viper.GetInt("retry.limit"); limit > 0 {
		cfg.Retry.DefaultLimit = limit
	}
	cfg.Quality.ConfigPath = viper.GetString("checker.config")
	cfg.Quality.DefaultOptions = viper.GetStringSlice("checker.options")
	if viper.IsSet("policy.root_override") {
		cfg.Policy.RootOverride = viper.GetBool("policy.root_override")
	}
	cfg.Logging.Debug = viper.GetBool("verbose")

	var auditFile *os.File
	if path := viper.GetString("audit.path"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, err
		}
		auditFile = f
		cfg.Audit.Enabled = true
	}

	builder := pwquality.New().
		WithConfig(cfg).
		WithCheckerProvider(provider).
		WithLogger(log.StandardLogger())
	if auditFile != nil {
		builder = builder.WithAuditSink(pwquality.NewJSONWriterSink(auditFile))
	}

	mod, err := builder.Build()
	if err != nil {
		if auditFile != nil {
			_ = auditFile.Close()
		}
		return nil, nil, err
	}

	closer := func() {
		mod.Close()
		if auditFile != nil {
			_ = auditFile.Close()
		}
	}

	return mod, closer, nil
}

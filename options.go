package pwquality

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// runOptions is the per-invocation state produced by parseOptions. The
// checker it carries lives for one invocation only.
type runOptions struct {
	debug      bool
	retryLimit int
	checker    Checker
}

// parseOptions allocates a checker and folds the invocation arguments over
// the configured defaults. Checker allocation is the only fatal outcome;
// every other problem is logged and skipped.
func (m *Module) parseOptions(ctx context.Context, sess Session, args []string) (*runOptions, error) {
	checker, err := m.provider.NewChecker()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMemAlloc, err)
	}

	opts := &runOptions{
		debug:      m.config.Logging.Debug,
		retryLimit: m.config.Retry.DefaultLimit,
		checker:    checker,
	}

	if err := checker.ReadConfig(m.config.Quality.ConfigPath); err != nil {
		m.log.WithError(err).Error("error reading quality configuration")
	}

	for _, opt := range m.config.Quality.DefaultOptions {
		if err := checker.SetOption(opt); err != nil {
			m.log.WithError(err).Errorf("error setting default option %s", opt)
		}
	}

	for _, arg := range args {
		switch {
		case arg == "debug":
			opts.debug = true
		case strings.HasPrefix(arg, "type="):
			_ = sess.SetItem(ctx, ItemAuthTokType, strings.TrimPrefix(arg, "type="))
		case strings.HasPrefix(arg, "retry="):
			n, err := strconv.Atoi(strings.TrimPrefix(arg, "retry="))
			if err != nil || n < 1 {
				opts.retryLimit = m.config.Retry.DefaultLimit
			} else {
				opts.retryLimit = n
			}
		case ignoredOption(arg):
			// recognized for compatibility with other stacking modules,
			// intentionally without effect here
		default:
			if err := checker.SetOption(arg); err != nil {
				m.log.WithError(err).Errorf("error setting option %s", arg)
			}
		}
	}

	return opts, nil
}

func ignoredOption(arg string) bool {
	switch arg {
	case "reject_username", "authtok_type", "use_authtok", "use_first_pass", "try_first_pass":
		return true
	}
	return false
}

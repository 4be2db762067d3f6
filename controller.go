package pwquality

import (
	"context"
	"time"
)

// ChangeAuthTok describes the changeauthtok operation and its observable behavior.
//
// ChangeAuthTok may return an error when input validation, dependency calls, or security checks fail.
// ChangeAuthTok does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Module) ChangeAuthTok(ctx context.Context, sess Session, flags Flags, args []string) error {
	if m == nil || m.provider == nil {
		return ErrModuleNotReady
	}
	if sess == nil {
		return ErrService
	}

	start := time.Now()

	opts, err := m.parseOptions(ctx, sess, args)
	if err != nil {
		return err
	}

	switch {
	case flags.Has(FlagPrelimCheck):
		m.metricInc(MetricPrelimCheck)
		return nil
	case flags.Has(FlagUpdateAuthTok):
		m.metricInc(MetricUpdateRequest)
		defer func() {
			m.metricObserve(MetricChangeLatency, time.Since(start))
		}()
		return m.runChange(ctx, sess, flags, opts)
	default:
		if opts.debug {
			m.log.Warnf("unknown flags setting %02X", uint32(flags))
		}
		return ErrService
	}
}

func (m *Module) runChange(ctx context.Context, sess Session, flags Flags, opts *runOptions) error {
	oldToken, err := sess.GetItem(ctx, ItemOldAuthTok)
	if err != nil {
		if opts.debug {
			m.log.WithError(err).Debug("cannot read old authentication token")
		}
		oldToken = ""
	}

	enforcing := m.getuid() != 0 ||
		flags.Has(FlagChangeExpiredAuthTok) ||
		!m.config.Policy.RootOverride

	var lastErr error

	tries := 0
	for tries < opts.retryLimit {
		newToken, ok, err := sess.GetAuthTok(ctx)
		tries++
		m.metricInc(MetricAttempt)
		if err != nil {
			m.log.WithError(err).Error("error recovering new authentication token")
			m.metricInc(MetricConvError)
			lastErr = err
			continue
		}
		if !ok {
			// user gave up, distinct from running out of retries
			m.metricInc(MetricAborted)
			m.emitAudit(ctx, auditEventChangeAborted, false, tries, ErrAborted, nil)
			return ErrAborted
		}

		checkStart := time.Now()
		score, cerr := opts.checker.Check(ctx, newToken, oldToken)
		m.metricObserve(MetricCheckLatency, time.Since(checkStart))
		if cerr != nil {
			msg := RejectionMessage(cerr)
			if opts.debug {
				m.log.Debugf("bad password: %s", msg)
			}
			if !flags.Has(FlagSilent) {
				sess.Error(ctx, "BAD PASSWORD: "+msg)
			}
			m.metricInc(MetricRejected)

			if enforcing {
				_ = sess.SetItem(ctx, ItemAuthTok, "")
				lastErr = cerr
				m.emitAudit(ctx, auditEventChangeRejected, false, tries, cerr, func() map[string]string {
					return map[string]string{"message": msg}
				})
				continue
			}

			// uid 0 changing a non-expired token may push a rejected
			// password through; a verification failure below replaces
			// the recorded rejection
			m.metricInc(MetricOverridden)
			m.emitAudit(ctx, auditEventRootOverride, false, tries, cerr, func() map[string]string {
				return map[string]string{"message": msg}
			})
			lastErr = cerr
		} else {
			if opts.debug {
				m.log.Debugf("password score: %d", score)
			}
			m.metricInc(MetricAccepted)
		}

		ok, err = sess.VerifyAuthTok(ctx)
		if err != nil {
			m.log.WithError(err).Error("error verifying new authentication token")
			m.metricInc(MetricVerifyFailure)
			_ = sess.SetItem(ctx, ItemAuthTok, "")
			lastErr = err
			continue
		}
		if !ok {
			m.metricInc(MetricAborted)
			m.emitAudit(ctx, auditEventChangeAborted, false, tries, ErrAborted, nil)
			return ErrAborted
		}

		m.emitAudit(ctx, auditEventChangeSuccess, true, tries, nil, nil)
		return nil
	}

	_ = sess.SetItem(ctx, ItemAuthTok, "")
	m.metricInc(MetricExhausted)

	// with a single attempt the caller still learns the concrete failure
	// instead of a generic retry verdict
	if opts.retryLimit > 1 {
		m.emitAudit(ctx, auditEventRetriesExhausted, false, tries, ErrMaxTries, nil)
		return ErrMaxTries
	}
	m.emitAudit(ctx, auditEventRetriesExhausted, false, tries, lastErr, nil)
	return lastErr
}

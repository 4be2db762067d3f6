package internaldefs

import (
	pwquality "github.com/debarshiray/libpwquality"
)

// CounterDef defines a public type used by pwquality APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   pwquality.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by pwquality APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID          pwquality.MetricID
	Name        string
	Help        string
	Bounds      []string
	BoundSuffix []string
}

// CounterDefs is an exported constant or variable used by the password-change controller.
var CounterDefs = []CounterDef{
	{ID: pwquality.MetricPrelimCheck, Name: "pwquality_prelim_check_total", Help: "Preliminary change requests."},
	{ID: pwquality.MetricUpdateRequest, Name: "pwquality_update_request_total", Help: "Update-phase change requests."},
	{ID: pwquality.MetricAttempt, Name: "pwquality_attempt_total", Help: "Password prompts charged against the retry budget."},
	{ID: pwquality.MetricAccepted, Name: "pwquality_accepted_total", Help: "Candidate passwords accepted."},
	{ID: pwquality.MetricRejected, Name: "pwquality_rejected_total", Help: "Candidate passwords rejected by quality checks."},
	{ID: pwquality.MetricOverridden, Name: "pwquality_overridden_total", Help: "Quality rejections overridden for non-enforcing callers."},
	{ID: pwquality.MetricAborted, Name: "pwquality_aborted_total", Help: "Conversations aborted before a candidate was offered."},
	{ID: pwquality.MetricExhausted, Name: "pwquality_exhausted_total", Help: "Conversations that ran out of retries."},
	{ID: pwquality.MetricConvError, Name: "pwquality_conv_error_total", Help: "Conversation transport failures."},
	{ID: pwquality.MetricVerifyFailure, Name: "pwquality_verify_failure_total", Help: "Retyped passwords that did not match the first entry."},
}

// HistogramDefs is an exported constant or variable used by the password-change controller.
var HistogramDefs = []HistogramDef{
	{
		ID:          pwquality.MetricChangeLatency,
		Name:        "pwquality_change_latency_seconds",
		Help:        "Change request latency histogram.",
		Bounds:      []string{"0.25", "0.5", "1", "2.5", "5", "15", "60", "+Inf"},
		BoundSuffix: []string{"0_25", "0_5", "1", "2_5", "5", "15", "60", "inf"},
	},
	{
		ID:          pwquality.MetricCheckLatency,
		Name:        "pwquality_check_latency_seconds",
		Help:        "Quality checker call latency histogram.",
		Bounds:      []string{"0.005", "0.01", "0.025", "0.05", "0.1", "0.25", "0.5", "+Inf"},
		BoundSuffix: []string{"0_005", "0_01", "0_025", "0_05", "0_1", "0_25", "0_5", "inf"},
	},
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}

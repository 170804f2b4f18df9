// Package metrics exposes Prometheus counters for the AP dispatcher
// (spec Section 9, "Observability" — an ambient concern carried even
// though the spec's scope excludes a full telemetry pipeline). Wiring
// is optional: a dispatcher built without a Registry simply skips
// recording.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles every counter the AP dispatcher records against.
type Registry struct {
	HandshakeAttempts  *prometheus.CounterVec
	HandshakeFailures  *prometheus.CounterVec
	BootSuccesses      prometheus.Counter
	AttestationResults *prometheus.CounterVec
	CredentialRejects  *prometheus.CounterVec
}

// NewRegistry creates and registers a Registry against reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		HandshakeAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ectf_handshake_attempts_total",
			Help: "SCAN/VALIDATE/BOOT attempts, labeled by stage.",
		}, []string{"stage"}),
		HandshakeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ectf_handshake_failures_total",
			Help: "SCAN/VALIDATE/BOOT failures, labeled by stage.",
		}, []string{"stage"}),
		BootSuccesses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ectf_boot_successes_total",
			Help: "Completed boot sequences that reached the post-boot loop.",
		}),
		AttestationResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ectf_attestation_results_total",
			Help: "Attestation attempts, labeled by outcome (ok/integrity/transport).",
		}, []string{"outcome"}),
		CredentialRejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ectf_credential_rejects_total",
			Help: "Rejected PIN/token checks, labeled by kind (pin/token).",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		r.HandshakeAttempts,
		r.HandshakeFailures,
		r.BootSuccesses,
		r.AttestationResults,
		r.CredentialRejects,
	)
	return r
}

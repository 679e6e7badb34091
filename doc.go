// Package pqbench benchmarks TLS-style handshakes across classical,
// post-quantum, and hybrid key establishment, and serves the results to a
// live browser dashboard.
//
// Each benchmark run performs real handshakes over loopback TCP in up to
// three modes:
//
//   - classical: ECDH P-384 key exchange, ECDSA P-384 authentication
//   - pqc: Kyber768 key encapsulation, ML-DSA-65 authentication
//   - hybrid: both exchanges combined into one session key
//
// Runs measure wall-clock handshake latency per iteration, apply a
// configurable simulated network penalty (latency and packet loss), and
// report per-mode timing statistics alongside the fixed public key and
// signature sizes of each algorithm suite.
//
// # Quick Start
//
// To serve the dashboard:
//
//	pqbench serve
//
// Then open http://localhost:8080, pick modes and network conditions, and
// run. Progress streams over a WebSocket as the benchmark executes.
//
// For a one-shot benchmark in the terminal:
//
//	pqbench bench --modes classical,pqc,hybrid --latency 30 --packet-loss 2
//
// To drive a run programmatically:
//
//	import "github.com/pzverkov/pqbench/pkg/bench"
//
//	cfg, _ := bench.NewRunConfig([]string{"classical", "pqc"}, 30, 2)
//	results, _ := bench.NewRunner(cfg).Run(context.Background())
//
// # Package Structure
//
//   - pkg/bench: benchmark runner, network simulation, statistics
//   - pkg/crypto: cryptographic primitives (ECDH, ECDSA, Kyber, ML-DSA, KDF, AEAD)
//   - pkg/handshake: the three handshake protocols and the loopback responder
//   - pkg/dashboard: HTTP server, embedded web UI, WebSocket streaming
//   - pkg/report: markdown and JSON result rendering
//   - pkg/metrics: run counters, latency histograms, health checks, Prometheus export
//   - pkg/config: service configuration from file and environment
//   - internal/constants: algorithm parameters, sizes, and benchmark constants
//   - internal/errors: shared error types
//
// # Testing
//
//	go test ./...                                      # All tests
//	go test -fuzz=FuzzParseKyberPublicKey ./test/fuzz/ # Fuzz tests
//	go test -bench=. ./test/benchmark                  # Benchmarks
//
// # References
//
//   - NIST FIPS 203: Module-Lattice-Based Key-Encapsulation Mechanism Standard
//   - NIST FIPS 204: Module-Lattice-Based Digital Signature Standard
//   - RFC 5869: HMAC-based Extract-and-Expand Key Derivation Function
package pqbench

// Package pkg holds the libraries behind the cosim command.
//
// # Overview
//
// cosim advances a stormwater solver one routing step at a time, samples
// telemetry at a fixed resolution, applies control logic between steps and
// reports the mass balance at the end of a run. The libraries are grouped as:
//
//  1. [solver] - The session interface, attribute codes and unit conversion,
//     with a trace-replaying implementation in [solver/playback]
//  2. [cosim] - The co-simulation driver and its controller
//  3. [control] - Threshold rules compiled into control functions
//  4. [topology] - Network graphs, reachability and spanning trees
//  5. [extreme] - Maximum and minimum search over sampled data
//  6. [inp], [records], [config], [results] - File formats
//  7. [observability], [cache], [errors], [buildinfo] - Support code
//
// # Data Flow
//
//	model.inp + trace ──→ [solver/playback] session
//	                              ↓
//	     [config] / [control] ─→ [cosim] driver ─→ [observability] hooks
//	                              ↓
//	                     [cosim] Record ─→ [results] JSON/CSV ─→ [extreme]
//
// # Quick Start
//
//	trace, err := playback.LoadTrace("gate.yaml")
//	if err != nil {
//	    return err
//	}
//	rec, err := cosim.Cosimulate(ctx, playback.New(trace), "gate.inp", cosim.Options{
//	    Entities:   cosim.One("C-5"),
//	    Attributes: cosim.One(solver.Flow),
//	})
//	if err != nil {
//	    return err
//	}
//	peak, err := extreme.Max(rec.Data())
//
// [solver]: https://pkg.go.dev/github.com/matzehuels/swmmcosim/pkg/solver
// [solver/playback]: https://pkg.go.dev/github.com/matzehuels/swmmcosim/pkg/solver/playback
// [cosim]: https://pkg.go.dev/github.com/matzehuels/swmmcosim/pkg/cosim
// [control]: https://pkg.go.dev/github.com/matzehuels/swmmcosim/pkg/control
// [topology]: https://pkg.go.dev/github.com/matzehuels/swmmcosim/pkg/topology
// [extreme]: https://pkg.go.dev/github.com/matzehuels/swmmcosim/pkg/extreme
// [inp]: https://pkg.go.dev/github.com/matzehuels/swmmcosim/pkg/inp
// [records]: https://pkg.go.dev/github.com/matzehuels/swmmcosim/pkg/records
// [config]: https://pkg.go.dev/github.com/matzehuels/swmmcosim/pkg/config
// [results]: https://pkg.go.dev/github.com/matzehuels/swmmcosim/pkg/results
// [observability]: https://pkg.go.dev/github.com/matzehuels/swmmcosim/pkg/observability
// [cache]: https://pkg.go.dev/github.com/matzehuels/swmmcosim/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/swmmcosim/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/swmmcosim/pkg/buildinfo
package pkg

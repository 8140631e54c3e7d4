// Package metrics exposes Prometheus collectors for widget bindings and
// page reruns.
//
//	m := metrics.New(metrics.WithNamespace("myapp"))
//	reg := registry.New(m)             // m observes registry traffic
//	http.Handle("/metrics", promhttp.Handler())
//
// Metrics collected:
//   - dhframe_bindings_total: objects registered, by kind
//   - dhframe_replaced_total: registrations that overwrote an entry
//   - dhframe_removals_total: objects removed from the registry
//   - dhframe_registry_objects: objects currently bound
//   - dhframe_flushed_total: identifiers swept at rerun start
//   - dhframe_reruns_total: page reruns, by status
//   - dhframe_rerun_duration_seconds: page rerun duration
package metrics

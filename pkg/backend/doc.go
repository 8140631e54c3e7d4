// Package backend is an in-process widget server implementing
// server.Backend.
//
// It stands in for the real analytics server during development and tests:
// it owns the execution root (a registry.Registry) that pages bind objects
// into, and serves the iframe resolution endpoint that turns
// /iframe/<kind>/?name=<id> back into the bound object.
//
// Routes:
//
//	GET /iframe/{kind}/?name=<id>   kind is table, chart or widget
//	GET /healthz
//	GET /metrics                    when WithGatherer is set
package backend

// Package registry holds the process-wide table of bound widget objects.
//
// A Registry maps an identifier to the server-side object it names. Every
// page session running against one backend shares the same Registry, so all
// operations are safe for concurrent use. The iframe resolution endpoint
// turns a request for ?name=<id> back into an object with Lookup.
//
// Absence is a normal outcome: Remove of an unknown identifier is a no-op and
// Lookup reports a miss through its boolean result.
//
//	reg := registry.New()
//	reg.Register("__w_1a2b", table)
//	obj, ok := reg.Lookup("__w_1a2b")
//	reg.Remove("__w_1a2b")
package registry

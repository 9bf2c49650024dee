// Package inspect serves a diagnostics HTTP API over a reactive.Registry.
//
// Routes:
//
//	GET /signals                  list of {name, subscribers}
//	GET /signals/{name}           JSON snapshot of the current value
//	PUT /signals/{name}/value     assign a JSON value through the accessor layer
//	GET /signals/{name}/{key}     read one accessor property
//	GET /ws?signal={name}         websocket stream of {signal, value} messages
//	GET /metrics                  Prometheus exposition
//	GET /healthz                  liveness
//
// Writes made through the API are ordinary SetValue assignments: they fire
// OnUpdate hooks, skip identical values and notify every subscriber,
// including other websocket clients.
package inspect

// Package gateway admits calls before they reach a pipeline. A Guard turns
// the raw request into a call context and checks it against the handler
// descriptor, with optional per-caller rate limits. A Registry keeps the
// name-keyed table of descriptors a dispatcher routes on.
package gateway

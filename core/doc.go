// Package core contains handler identity, the call context and unit-of-work
// contracts, and the pipeline that runs a stage, persists once and then
// dispatches exactly one commit hook. Adapters depend on this package; core
// must not depend on transport or storage adapters.
package core

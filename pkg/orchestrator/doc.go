// Package orchestrator wires the builder, session model, template resolver
// and render session into a single Form facade: declare the form through
// Builder, then call Render once to obtain the markup and its assets.
package orchestrator

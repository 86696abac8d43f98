// Package encode renders trees back to YAML text and bridges them to and
// from plain Go values. The emitter is hand-rolled so tags, priorities and
// merge modes survive a round trip through parse and encode; goccy's
// marshaller cannot carry them. Colors are optional and off by default.
package encode

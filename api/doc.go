// Package api mounts the account HTTP routes on a Gin engine and translates
// engine results and errors into response envelopes.
package api

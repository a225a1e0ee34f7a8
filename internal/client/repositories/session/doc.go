// Package session persists the console's bearer token and cached profile in
// a kv.Store under the authToken and user keys.
package session

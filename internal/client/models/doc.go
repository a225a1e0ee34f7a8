// Package models defines the client-side data shapes of the console: the
// cached user profile and session, backend response bodies, and chat roster
// entries.
package models

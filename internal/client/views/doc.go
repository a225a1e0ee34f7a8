// Package views holds the console's independently mounted screens.
//
// Views share nothing but the roster service and the event bus. Each view
// reads the roster when it mounts, subscribes to events.TopicRosterChanged
// for as long as it is mounted and re-reads the roster on every
// notification. Notifications carry no data.
package views

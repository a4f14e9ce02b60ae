// Package notifications surfaces errors the user should see but that never
// travel over the shell socket, such as a failed public link request or a
// socket that could not be bound.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and degrades to a no-op when no topic is set.
package notifications

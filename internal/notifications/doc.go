// Package notifications announces publish results via ntfy.
//
// The ntfy implementation posts to the topic URL configured under
// [notifications] and degrades to a no-op when no topic is set. Callers
// depend only on the Service interface.
package notifications

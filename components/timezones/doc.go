// Package timezones provides a "timezone" component: a select field listing
// IANA zone names from an embedded list, plus a search helper for hosts that
// filter the list themselves.
package timezones

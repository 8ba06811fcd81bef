// Package models defines the client-side data model of gymadmin: the tagged
// record types served by the back office API, the query state that drives a
// list request, and the paginated result that comes back.
package models

// Record is implemented by every entity a list view can manage.
//
// Key returns the stable identity used in mutation URLs (card_id for
// members, numeric id for classes and payments). Validate performs the local
// checks that must pass before a record is sent to the server; it returns a
// *ValidationError or nil.
type Record interface {
	Key() string
	Validate() error
}

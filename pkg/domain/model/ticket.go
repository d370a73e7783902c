package model

// Ticket is the remote tracker record a finding reconciles into.
// Store-internal metadata beyond these fields is not modeled.
type Ticket struct {
	Key         string
	Summary     string
	Description string
}

// Collection identifies the project/container in the ticket store that new
// tickets are filed under
type Collection struct {
	Key  string
	Name string
}

// Package session holds the client-session state shared between the
// authentication engine and its collaborators.
//
// Rather than living on an ambient global connection object, the state is
// an explicit capability passed into the transport and the login flow,
// mutated only within a single login attempt.
package session

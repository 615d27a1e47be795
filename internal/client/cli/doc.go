// Package cli provides certcli, the terminal client of the certification
// showcase.
//
// It wires configuration, the API client, the persisted session and the admin
// console into cobra commands:
//   - browse: the public listing with search, filters and sort
//   - login / logout / whoami: the auth gate
//   - admin ...: certification and skill management, signed-in only
//
// Signing in redirects to the admin listing. See NewRootCommand.
package cli

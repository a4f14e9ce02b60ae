// Package sharing talks to the account's server for the link and editing
// features of the context menu. It implements the socket API's link, editor
// and share dialog providers on top of the server's OCS endpoints.
package sharing

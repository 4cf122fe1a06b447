// Package adapter surfaces GTID sets through the error conventions of
// the surrounding server. Parsing and formatting delegate to the gtids
// text codec; failures map onto numeric server codes, with malformed
// input carrying a diagnostic excerpt bounded the way the server's
// message catalogue bounds its parameters.
package adapter

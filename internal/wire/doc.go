// Package wire implements the line protocol spoken between shell extensions
// and the sync agent.
//
// Every message is one UTF-8 line terminated by '\n' and shaped as
// VERB[:STATUS][:PATH]. Inbound lines are normalized to Unicode NFC before
// they are split into a verb and its argument, because some platforms hand
// out decomposed file names. Paths are emitted with native separators and are
// not escaped; a path containing a newline cannot be represented.
package wire

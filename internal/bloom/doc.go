// Package bloom provides the fixed-size interest filter each shell client
// connection carries.
//
// A Filter remembers which directories a client has looked at so that status
// pushes for those directories reach it and nobody else. It never forgets an
// entry and never reports a stored hash as absent; false positives only cost
// one superfluous message.
package bloom

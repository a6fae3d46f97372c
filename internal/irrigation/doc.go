// Package irrigation holds the vocabulary of the field controller the
// console talks to: the commands it accepts and the status report it
// publishes.
package irrigation

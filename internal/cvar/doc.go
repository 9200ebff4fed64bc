// Package cvar provides typed console variables.
//
// A Store holds named variables of kind bool, int, float or string. Values
// are written as raw strings and coerced to the variable's kind; a rejected
// write leaves the stored value untouched and returns an *AssignmentError
// that matches ErrAssignment.
//
// Variables flagged Archive are handed to a Persister after every
// successful write so they survive restarts.
package cvar

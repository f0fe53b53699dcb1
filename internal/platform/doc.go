// Package platform isolates operating-system differences in how external
// executables are named and located. Callers get ordered candidate lists
// instead of branching on runtime.GOOS themselves.
package platform

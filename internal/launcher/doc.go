// Package launcher runs the target command with the composed environment.
//
// The child inherits standard streams. Its outcome maps to the process
// exit code as follows:
//
//	0    the child exited successfully
//	n    the child exited with code n
//	125  resolution, staging or setup failed before anything was spawned
//	126  the command exists but could not be executed
//	127  the command was not found
//	128  the child was terminated by a signal
//
// A Relay traps SIGINT, SIGTERM and SIGHUP for the whole run. Before the
// child starts they cancel the run; afterwards they are forwarded to the
// child and the parent keeps waiting so cleanup can follow its exit.
package launcher

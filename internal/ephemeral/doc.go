// Package ephemeral stages files that exist only while a command runs.
//
// Files are written in declaration order with mode 0600. Staging is all or
// nothing: a failure removes whatever this invocation already wrote.
// Cleanup removes exactly the files that were staged, never restores
// content overwritten under force, and leaves created directories behind.
// Removal failures are reported, not fatal.
package ephemeral

// Package universe models process-wide initialization as a
// single-instance resource with explicit acquire and release, rather than
// a hidden singleton.
//
// A participant obtains one Universe per substrate attachment at startup;
// all communicators and descriptor registrations are scoped to its
// lifetime. The core communication layer never initializes or finalizes
// the substrate itself — it only consumes an already-attached handle.
package universe

// Package pipeline runs a scaffold job through its stages:
//
//	Validating → Resolving → PersistingDefault → CheckingDirectory →
//	Generating → InstallingBase → ApplyingFeatures → Patching →
//	InitializingRepository → Done
//
// Any stage may end the job with a *StageError. Whether install failures are
// fatal is decided by the failure policy and the execution mode: blocking
// runs abort on the first install error, streaming runs log it and go on.
// Patching and repository initialization never fail a job.
//
// Blocking and streaming modes share Run; Stream only moves it onto a
// goroutine and routes its lines into a progress.Stream.
package pipeline

// Package failure classifies errors produced by the scaffold pipeline.
// Components wrap their causes in an *Error carrying a Kind, so callers
// can decide whether a failure is fatal without matching on message text.
package failure

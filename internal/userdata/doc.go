// Package userdata manages the files kept under the configuration root:
// the feature registry, the default-directory preference, and the optional
// scaffold.env overlay passed to child processes.
package userdata

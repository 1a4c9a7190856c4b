// Package services hosts clients for external collaborators and the shared
// error taxonomy used to classify their failures.
package services

package ports

import "github.com/bft-labs/chainreport/pkg/log"

// Logger is the structured logger used throughout the application.
type Logger = log.Logger

// Field is a structured log field.
type Field = log.Field

// Err creates an error field.
func Err(err error) Field { return log.Err(err) }

// Package instrument wires OpenTelemetry traces, metrics and logs, and
// installs the process-wide slog logger.
//
// Logs are JSON on stdout and, when OpenTelemetry is enabled, also shipped
// through the otelslog bridge. Attributes whose key is listed in the mask
// configuration (for example password or code) are replaced by "***", also
// inside nested groups and JSON payloads.
package instrument

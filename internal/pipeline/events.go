// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

package pipeline

import "github.com/rs/zerolog"

// ZerologEvents is the default EventLogger: audit events land in the
// structured log under the "audit" component.
type ZerologEvents struct {
	logger zerolog.Logger
}

// NewZerologEvents creates the log-backed event collaborator.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewZerologEvents(logger zerolog.Logger) *ZerologEvents {
	return &ZerologEvents{
		logger: logger.With().Str("component", "audit").Logger(),
	}
}

// LogEvent writes one audit event.
func (z *ZerologEvents) LogEvent(message string, fields map[string]interface{}) {
	z.logger.Info().Fields(fields).Msg(message)
}

var _ EventLogger = (*ZerologEvents)(nil)

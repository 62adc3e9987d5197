// Pomodesk
// Copyright (c) 2026 The Pomodesk Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Pomodesk.
//
// Pomodesk is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Pomodesk is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Pomodesk.  If not, see <http://www.gnu.org/licenses/>.

package api

import (
	"context"
	"encoding/json"

	"github.com/pomodesk/pomodesk/pkg/api/models"
	"github.com/rs/zerolog/log"
)

// rpcNotification is a JSON-RPC 2.0 notification frame.
type rpcNotification struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

func encodeNotification(n models.Notification) ([]byte, error) {
	//nolint:wrapcheck // caller logs
	return json.Marshal(rpcNotification{
		JSONRPC: "2.0",
		Method:  n.Method,
		Params:  n.Params,
	})
}

// broadcast forwards broker events to every websocket client until ctx is
// done or the subscription closes.
func (s *Server) broadcast(ctx context.Context) {
	if s.env.Events == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case notif, ok := <-s.env.Events:
			if !ok {
				log.Debug().Msg("event stream subscription closed")
				return
			}
			data, err := encodeNotification(notif)
			if err != nil {
				log.Error().Err(err).Msg("marshalling notification")
				continue
			}
			if err := s.events.Broadcast(data); err != nil {
				log.Debug().Err(err).Msg("broadcasting notification")
			}
		}
	}
}

/* Copyright 2026 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Monitor streams daily snapshots to WebSocket subscribers.
type Monitor struct {
	log      *slog.Logger
	upgrader websocket.Upgrader
	conns    sync.Map // addr -> chan []byte
}

func NewMonitor(log *slog.Logger) *Monitor {
	return &Monitor{log: log}
}

// Broadcast sends a value to every subscriber, dropping it for
// subscribers that cannot keep up.
func (m *Monitor) Broadcast(v interface{}) {
	js, err := json.Marshal(v)
	if err != nil {
		m.log.Error("monitor marshal", "error", err)
		return
	}
	m.conns.Range(func(k, c interface{}) bool {
		select {
		case c.(chan []byte) <- js:
		default:
			m.log.Warn("monitor subscriber blocked", "addr", k)
		}
		return true
	})
}

// ListenAndServe serves the WebSocket endpoint until the context is
// canceled.
func (m *Monitor) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/monitor", func(w http.ResponseWriter, r *http.Request) {
		c, err := m.upgrader.Upgrade(w, r, nil)
		if err != nil {
			m.log.Error("monitor upgrade", "error", err)
			return
		}
		defer c.Close()

		in := make(chan []byte, 32)
		id := c.RemoteAddr().String()
		m.conns.Store(id, in)
		defer m.conns.Delete(id)
		m.log.Info("monitor subscriber", "addr", id)

		for {
			select {
			case <-ctx.Done():
				return
			case js := <-in:
				if err := c.WriteMessage(websocket.TextMessage, js); err != nil {
					m.log.Info("monitor subscriber gone", "addr", id)
					return
				}
			}
		}
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

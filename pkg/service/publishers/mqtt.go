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

// Package publishers forwards notifications to external message brokers.
package publishers

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/pomodesk/pomodesk/pkg/api/models"
	"github.com/rs/zerolog/log"
)

const (
	connectTimeout  = 10 * time.Second
	publishTimeout  = 5 * time.Second
	disconnectQuiet = 250
)

// Message is the payload published for every notification.
type Message struct {
	Params json.RawMessage `json:"params,omitempty"`
	Method string          `json:"method"`
	Device string          `json:"device,omitempty"`
}

// MQTTPublisher publishes notifications to one broker topic. An empty
// filter publishes every method.
type MQTTPublisher struct {
	client    mqtt.Client
	newClient func(*mqtt.ClientOptions) mqtt.Client
	stopCh    chan struct{}
	broker    string
	topic     string
	device    string
	filter    []string
	wg        sync.WaitGroup
	stopOnce  sync.Once
}

func NewMQTTPublisher(broker, topic, device string, filter []string) *MQTTPublisher {
	return &MQTTPublisher{
		broker:    broker,
		topic:     topic,
		device:    device,
		filter:    filter,
		newClient: mqtt.NewClient,
		stopCh:    make(chan struct{}),
	}
}

func (p *MQTTPublisher) clientOptions() *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker("tcp://" + p.broker)
	opts.SetClientID("pomodesk-" + uuid.New().String()[:8])
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", p.broker).Msg("mqtt publisher connected")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Str("broker", p.broker).Msg("mqtt publisher connection lost")
	}
	return opts
}

// Start connects and forwards notifications until Stop is called or the
// channel closes. With connect retry enabled the first connection may
// complete in the background.
func (p *MQTTPublisher) Start(notifications <-chan models.Notification) error {
	p.client = p.newClient(p.clientOptions())

	token := p.client.Connect()
	if token.WaitTimeout(connectTimeout) && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker %s: %w", p.broker, token.Error())
	}

	p.wg.Add(1)
	go p.publishNotifications(notifications)
	return nil
}

// Stop ends the forwarding loop and disconnects. It is safe to call more
// than once.
func (p *MQTTPublisher) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
		p.wg.Wait()
		if p.client != nil && p.client.IsConnected() {
			log.Debug().Str("broker", p.broker).Msg("mqtt publisher disconnecting")
			p.client.Disconnect(disconnectQuiet)
		}
	})
}

func (p *MQTTPublisher) publishNotifications(notifications <-chan models.Notification) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopCh:
			return
		case notif, ok := <-notifications:
			if !ok {
				log.Debug().Msg("mqtt publisher notification channel closed")
				return
			}
			if !p.matchesFilter(notif.Method) {
				continue
			}
			if err := p.publish(notif); err != nil {
				log.Error().Err(err).Str("method", notif.Method).Msg("mqtt publish failed")
			}
		}
	}
}

func (p *MQTTPublisher) publish(notif models.Notification) error {
	payload, err := json.Marshal(Message{
		Method: notif.Method,
		Params: notif.Params,
		Device: p.device,
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	token := p.client.Publish(p.topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", p.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	log.Debug().Str("method", notif.Method).Str("topic", p.topic).Msg("published notification")
	return nil
}

func (p *MQTTPublisher) matchesFilter(method string) bool {
	return len(p.filter) == 0 || slices.Contains(p.filter, method)
}

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
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Publisher sends daily snapshots to an MQTT broker.
type Publisher struct {
	client mqtt.Client
	topic  string
}

func NewPublisher(broker, clientID, topic string) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if t := client.Connect(); t.Wait() && t.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %v", broker, t.Error())
	}
	return &Publisher{client: client, topic: topic}, nil
}

func (p *Publisher) Publish(v interface{}) error {
	js, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if t := p.client.Publish(p.topic, 1, false, js); t.Wait() && t.Error() != nil {
		return t.Error()
	}
	return nil
}

func (p *Publisher) Close(quiesceMS uint) {
	if p == nil {
		return
	}
	p.client.Disconnect(quiesceMS)
}

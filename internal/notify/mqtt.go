package notify

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// MQTTPublisher emits change events to an MQTT broker, one topic per
// collection under the configured prefix.
type MQTTPublisher struct {
	client      mqtt.Client
	topicPrefix string
}

// NewMQTTPublisher connects to the broker at brokerURL. topicPrefix defaults
// to "drivenote" when empty.
func NewMQTTPublisher(brokerURL, clientID, topicPrefix string) (*MQTTPublisher, error) {
	if topicPrefix == "" {
		topicPrefix = "drivenote"
	}

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect timeout for %s", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect error: %w", err)
	}

	return &MQTTPublisher{client: client, topicPrefix: topicPrefix}, nil
}

// Publish sends the event to <prefix>/<collection>. Errors are logged, never
// returned: change notification is best-effort.
func (p *MQTTPublisher) Publish(collection string, event ChangeEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).Error("Failed to marshal change event")
		return
	}

	topic := p.topicPrefix + "/" + collection
	token := p.client.Publish(topic, 0, false, payload)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"topic":  topic,
				"action": event.Action,
				"id":     event.ID,
			}).Error("Failed to publish change event")
		}
	}()
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

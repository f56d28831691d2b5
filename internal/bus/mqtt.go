package bus

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// MQTTMirror republishes device-topic events to an MQTT broker on
// tv/<device>/commands, for display firmware that speaks MQTT instead of
// holding a websocket open.
type MQTTMirror struct {
	client mqtt.Client
}

var _ Mirror = (*MQTTMirror)(nil)

func NewMQTTMirror(brokerURL, clientID string) (*MQTTMirror, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", brokerURL).Msg("connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return &MQTTMirror{client: client}, nil
}

func (m *MQTTMirror) Publish(deviceID string, payload []byte) {
	topic := fmt.Sprintf("tv/%s/commands", deviceID)
	token := m.client.Publish(topic, 1, false, payload)
	token.Wait()
	if token.Error() != nil {
		log.Error().Err(token.Error()).Str("device_id", deviceID).Msg("failed to mirror event to MQTT")
	}
}

// Close disconnects from the broker.
func (m *MQTTMirror) Close() {
	m.client.Disconnect(250)
}

package publisher

import (
	"context"
	"fmt"

	"codeberg.org/nording/hrvctl/internal/errors"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// mqttTransport publishes over an MQTT broker. Auto-reconnect is left to
// the paho client; while the broker is away, Publish returns errors the
// publisher swallows.
type mqttTransport struct {
	client mqtt.Client
}

func NewMQTTTransport(broker, clientID, password string) (Transport, error) {
	errFactory := errors.New()

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	if password != "" {
		opts.SetPassword(password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, errFactory.Wrap(ErrTransportInit, token.Error())
	}

	return &mqttTransport{client: client}, nil
}

func (t *mqttTransport) Publish(_ context.Context, channel string, value any) error {
	errFactory := errors.New()

	payload := fmt.Sprintf("%v", value)
	token := t.client.Publish(channel, 0, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return errFactory.Wrap(ErrPublishFailed, err)
	}

	return nil
}

func (t *mqttTransport) Close() error {
	t.client.Disconnect(250)
	return nil
}

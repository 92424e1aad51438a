package main

import (
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/mock"
)

// mockToken implements mqtt.Token for testing, always already completed.
type mockToken struct {
	err error
	mu  sync.RWMutex
}

func newMockToken(err error) *mockToken {
	return &mockToken{err: err}
}

func (t *mockToken) Wait() bool                     { return t.WaitTimeout(30 * time.Second) }
func (t *mockToken) WaitTimeout(time.Duration) bool { return true }
func (t *mockToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *mockToken) Error() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err
}

// mockMQTTClient implements mqtt.Client via testify/mock, for exercising
// Publisher and MQTTClient without a real broker. A topic-to-handler table
// lets Subscribe/simulateMessage round-trip.
type mockMQTTClient struct {
	mock.Mock
	mu              sync.RWMutex
	connected       bool
	messageHandlers map[string]mqtt.MessageHandler
}

func newMockMQTTClient() *mockMQTTClient {
	m := &mockMQTTClient{
		messageHandlers: make(map[string]mqtt.MessageHandler),
		connected:       true,
	}
	m.On("IsConnected").Return(true).Maybe()
	m.On("Connect").Return(newMockToken(nil)).Maybe()
	m.On("Subscribe", mock.Anything, mock.Anything, mock.Anything).Return(newMockToken(nil)).Run(func(args mock.Arguments) {
		topic := args.String(0)
		handler := args.Get(2).(mqtt.MessageHandler)
		m.mu.Lock()
		m.messageHandlers[topic] = handler
		m.mu.Unlock()
	}).Maybe()
	m.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(newMockToken(nil)).Maybe()
	m.On("Disconnect", mock.Anything).Return().Maybe()
	return m
}

func (m *mockMQTTClient) Connect() mqtt.Token {
	args := m.Called()
	m.mu.Lock()
	m.connected = true
	m.mu.Unlock()
	if t, ok := args.Get(0).(mqtt.Token); ok {
		return t
	}
	return newMockToken(nil)
}

func (m *mockMQTTClient) Disconnect(quiesce uint) {
	m.Called(quiesce)
	m.mu.Lock()
	m.connected = false
	m.mu.Unlock()
}

func (m *mockMQTTClient) IsConnected() bool {
	m.mu.RLock()
	connected := m.connected
	m.mu.RUnlock()
	if !connected {
		return false
	}
	args := m.Called()
	return args.Bool(0)
}

func (m *mockMQTTClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	args := m.Called(topic, qos, retained, payload)
	if t, ok := args.Get(0).(mqtt.Token); ok {
		return t
	}
	return newMockToken(nil)
}

func (m *mockMQTTClient) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	args := m.Called(topic, qos, callback)
	if t, ok := args.Get(0).(mqtt.Token); ok {
		return t
	}
	return newMockToken(nil)
}

func (m *mockMQTTClient) IsConnectionOpen() bool { return m.IsConnected() }

func (m *mockMQTTClient) SubscribeMultiple(filters map[string]byte, callback mqtt.MessageHandler) mqtt.Token {
	return newMockToken(nil)
}

func (m *mockMQTTClient) Unsubscribe(topics ...string) mqtt.Token { return newMockToken(nil) }

func (m *mockMQTTClient) AddRoute(topic string, callback mqtt.MessageHandler) {}

func (m *mockMQTTClient) OptionsReader() mqtt.ClientOptionsReader { return mqtt.ClientOptionsReader{} }

func (m *mockMQTTClient) setConnected(connected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = connected
}

// simulateMessage delivers payload to whatever handler last subscribed to topic.
func (m *mockMQTTClient) simulateMessage(topic string, payload []byte) {
	m.mu.RLock()
	handler, ok := m.messageHandlers[topic]
	m.mu.RUnlock()
	if ok && handler != nil {
		handler(m, &mockMessage{topic: topic, payload: payload})
		return
	}
	log.Printf("mockMQTTClient: no handler for topic %s", topic)
}

// publishedMessage is one recorded Publish call.
type publishedMessage struct {
	Topic   string
	Payload []byte
	QoS     byte
	Retain  bool
}

func (m *mockMQTTClient) publishedMessages() []publishedMessage {
	var out []publishedMessage
	for _, call := range m.Calls {
		if call.Method != "Publish" {
			continue
		}
		var payload []byte
		switch v := call.Arguments.Get(3).(type) {
		case []byte:
			payload = v
		case string:
			payload = []byte(v)
		}
		out = append(out, publishedMessage{
			Topic:   call.Arguments.String(0),
			Payload: payload,
			QoS:     call.Arguments.Get(1).(byte),
			Retain:  call.Arguments.Bool(2),
		})
	}
	return out
}

// mockMessage implements mqtt.Message for testing.
type mockMessage struct {
	topic   string
	payload []byte
}

func (m *mockMessage) Duplicate() bool     { return false }
func (m *mockMessage) Qos() byte           { return 0 }
func (m *mockMessage) Retained() bool      { return false }
func (m *mockMessage) Topic() string       { return m.topic }
func (m *mockMessage) MessageID() uint16   { return 0 }
func (m *mockMessage) Payload() []byte     { return m.payload }
func (m *mockMessage) Ack()                {}
func (m *mockMessage) AutoAckOff()         {}
func (m *mockMessage) AutoAckOn()          {}
func (m *mockMessage) SetAutoAck(bool)     {}
func (m *mockMessage) SetRetained(bool)    {}
func (m *mockMessage) SetQoS(byte)         {}
func (m *mockMessage) SetDuplicate(bool)   {}
func (m *mockMessage) SetMessageID(uint16) {}

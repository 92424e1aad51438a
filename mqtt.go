package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MatchRequest is the payload expected on AppConfig.MQTT.RequestTopic: a
// drone ID, a path to the captured image (already written to local disk by
// whatever delivered the MQTT message), and an optional subset of candidate
// IDs to restrict the search to.
type MatchRequest struct {
	DroneID      string   `json:"droneId"`
	ImagePath    string   `json:"imagePath"`
	CandidateIDs []string `json:"candidateIds,omitempty"`
}

// MQTTClient manages the optional live-ingestion MQTT connection: a drone
// image arrives on AppConfig.MQTT.RequestTopic, the engine runs, the ranked
// result is published back through a Publisher.
type MQTTClient struct {
	client      mqtt.Client
	config      MQTTConfig
	isConnected bool
	mu          sync.RWMutex
}

// InitMQTT initializes an MQTTClient from the given config and starts the
// connect-with-retry loop. The MQTT_BROKER environment variable, when set,
// overrides cfg.Broker; if both are empty, MQTT is disabled and this returns
// (nil, nil).
func InitMQTT(cfg MQTTConfig, onRequest func(MatchRequest)) (*MQTTClient, error) {
	broker := os.Getenv("MQTT_BROKER")
	if broker == "" {
		broker = cfg.Broker
	}
	if broker == "" {
		log.Println("[MQTT] disabled: no broker configured")
		return nil, nil
	}
	if cfg.RequestTopic == "" {
		return nil, fmt.Errorf("MQTT enabled but requestTopic is empty")
	}

	c := &MQTTClient{config: cfg}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)

	clientID := os.Getenv("MQTT_CLIENT_ID")
	if clientID == "" {
		clientID = cfg.ClientID
	}
	if clientID == "" {
		clientID = "aerialmatch"
	}
	opts.SetClientID(clientID)

	username := os.Getenv("MQTT_USERNAME")
	if username == "" {
		username = cfg.Username
	}
	if username != "" {
		opts.SetUsername(username)
		password := os.Getenv("MQTT_PASSWORD")
		if password == "" {
			password = cfg.Password
		}
		opts.SetPassword(password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetCleanSession(false)
	opts.SetOrderMatters(false)

	opts.SetOnConnectHandler(func(client mqtt.Client) {
		log.Println("[MQTT] connected, subscribing to request topic")
		c.setConnected(true)
		token := client.Subscribe(cfg.RequestTopic, 0, c.requestHandler(onRequest))
		if token.WaitTimeout(5*time.Second) && token.Error() != nil {
			log.Printf("[MQTT] error subscribing to %s: %v", cfg.RequestTopic, token.Error())
		}
	})
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		log.Printf("[MQTT] connection interrupted (%v), auto-reconnect will retry", err)
		c.setConnected(false)
	})

	c.client = mqtt.NewClient(opts)
	go c.connectWithRetry()

	return c, nil
}

func (c *MQTTClient) connectWithRetry() {
	retryDelay := 1 * time.Second
	const maxRetryDelay = 60 * time.Second
	for {
		log.Println("[MQTT] connecting...")
		token := c.client.Connect()
		if token.WaitTimeout(10*time.Second) && token.Error() == nil {
			log.Println("[MQTT] connected")
			c.setConnected(true)
			return
		}
		log.Printf("[MQTT] connect failed, retrying in %v", retryDelay)
		time.Sleep(retryDelay)
		retryDelay *= 2
		if retryDelay > maxRetryDelay {
			retryDelay = maxRetryDelay
		}
	}
}

func (c *MQTTClient) requestHandler(onRequest func(MatchRequest)) mqtt.MessageHandler {
	return func(client mqtt.Client, msg mqtt.Message) {
		var req MatchRequest
		if err := json.Unmarshal(msg.Payload(), &req); err != nil {
			log.Printf("[MQTT] malformed match request: %v", err)
			return
		}
		if onRequest != nil {
			onRequest(req)
		}
	}
}

// IsConnected reports the current connection status.
func (c *MQTTClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isConnected
}

func (c *MQTTClient) setConnected(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isConnected = v
}

// Disconnect gracefully closes the MQTT connection.
func (c *MQTTClient) Disconnect() {
	if c.client != nil && c.client.IsConnected() {
		log.Println("[MQTT] disconnecting")
		c.client.Disconnect(250)
		c.setConnected(false)
	}
}

// GetClient returns the underlying paho client for publishing.
func (c *MQTTClient) GetClient() mqtt.Client {
	return c.client
}

// handleMatchRequest runs one MatchRequest end to end: match against the
// configured candidates, record the result in state, publish it. Intended
// to be passed (bound to an App) as InitMQTT's onRequest callback.
func (a *App) handleMatchRequest(ctx context.Context, req MatchRequest) {
	ranked, candidates, err := a.MatchCandidates(ctx, req.ImagePath, req.CandidateIDs)
	if err != nil {
		log.Printf("[MQTT] match request for drone %s failed: %v", req.DroneID, err)
		return
	}

	a.States.Update(req.DroneID, ranked)

	if a.Publisher != nil {
		if err := a.Publisher.PublishResult(req.DroneID, ranked, candidates); err != nil {
			log.Printf("[MQTT] publishing result for drone %s failed: %v", req.DroneID, err)
		}
	}
}

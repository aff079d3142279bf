package broker

import (
	"fmt"

	"github.com/Grupp05-AI/Admin-sida/tips"
	"github.com/Shopify/sarama"
	jsoniter "github.com/json-iterator/go"
)

const GeocodedTopicName = "topic.tips.geocoded"

func NewProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	// Return success is required for sync producer.
	config.Producer.Return.Successes = true

	return sarama.NewSyncProducer(brokers, config)
}

type GeocodedMessage struct {
	ID        int64   `json:"id"`
	Place     string  `json:"place"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GeocodedPublisher sends a message for every tip that received coordinates.
type GeocodedPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewGeocodedPublisher(producer sarama.SyncProducer) *GeocodedPublisher {
	return &GeocodedPublisher{producer: producer, topic: GeocodedTopicName}
}

func (p *GeocodedPublisher) PublishGeocoded(tip tips.Tip) error {
	if !tip.HasCoordinates() {
		return fmt.Errorf("tip %d has no coordinates", tip.ID)
	}

	payload, err := jsoniter.Marshal(GeocodedMessage{
		ID:        tip.ID,
		Place:     tips.Str(tip.Place),
		Latitude:  *tip.Latitude,
		Longitude: *tip.Longitude,
	})
	if err != nil {
		return fmt.Errorf("could not encode geocoded message: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(fmt.Sprintf("%d", tip.ID)),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("could not send geocoded message: %w", err)
	}
	return nil
}

func (p *GeocodedPublisher) Close() error {
	return p.producer.Close()
}

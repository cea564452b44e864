package kafka

import (
	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

const CatalogTopic = "catalog.books"

type Config struct {
	// Addrs left empty disables event publishing.
	Addrs    []string `envconfig:"KAFKA_ADDRS"`
	Topic    string   `envconfig:"KAFKA_TOPIC" default:"catalog.books"`
	ClientID string   `envconfig:"KAFKA_CLIENT_ID" default:"catalog-service"`
	Retries  int      `envconfig:"KAFKA_RETRIES" default:"3"`
}

func (c Config) Enabled() bool {
	return len(c.Addrs) > 0
}

// ProducerConfig is the sarama setup of the catalog event producer: acked by
// every in-sync replica, partitioned by message key.
func ProducerConfig(cfg Config) (*sarama.Config, error) {
	sc := sarama.NewConfig()
	if cfg.ClientID != "" {
		sc.ClientID = cfg.ClientID
	}
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Return.Successes = true
	sc.Producer.Partitioner = sarama.NewHashPartitioner
	sc.Producer.Compression = sarama.CompressionSnappy
	sc.Producer.Retry.Max = cfg.Retries
	if err := sc.Validate(); err != nil {
		return nil, errors.Wrap(err, "sarama config")
	}
	return sc, nil
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	sc, err := ProducerConfig(cfg)
	if err != nil {
		return nil, err
	}
	return sarama.NewSyncProducer(cfg.Addrs, sc)
}

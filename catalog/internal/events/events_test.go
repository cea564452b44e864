package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/catalog-service/catalog/internal/model"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	t.Parallel()
	producer := mocks.NewSyncProducer(t, nil)

	resp := model.NewBookResponse(model.Book{
		ID:         "b-1",
		BookFields: model.BookFields{Title: "Xala", Status: model.StatusReserved},
	})
	ev := model.BookEvent{
		Type:      model.EventBookCreated,
		BookID:    "b-1",
		Book:      &resp,
		Timestamp: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "catalog.books" {
			return errors.Errorf("topic %s", msg.Topic)
		}
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "b-1" {
			return errors.Errorf("key %s", key)
		}
		value, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var got model.BookEvent
		if err := json.Unmarshal(value, &got); err != nil {
			return err
		}
		if got.Type != model.EventBookCreated || got.Book == nil || got.Book.Status != "RESERVED" {
			return errors.Errorf("unexpected event %+v", got)
		}
		return nil
	})

	p := NewKafkaPublisher(producer, "catalog.books", zap.NewNop())
	require.NoError(t, p.Publish(context.Background(), ev))
	require.NoError(t, p.Close())
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	t.Parallel()
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewKafkaPublisher(producer, "catalog.books", zap.NewNop())
	err := p.Publish(context.Background(), model.BookEvent{Type: model.EventBookDeleted, BookID: "b-1"})
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestKafkaPublisher_CancelledContext(t *testing.T) {
	t.Parallel()
	producer := mocks.NewSyncProducer(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewKafkaPublisher(producer, "catalog.books", zap.NewNop())
	require.ErrorIs(t, p.Publish(ctx, model.BookEvent{BookID: "b-1"}), context.Canceled)
	require.NoError(t, p.Close())
}

func TestNop(t *testing.T) {
	t.Parallel()
	require.NoError(t, Nop{}.Publish(context.Background(), model.BookEvent{}))
	require.NoError(t, Nop{}.Close())
}

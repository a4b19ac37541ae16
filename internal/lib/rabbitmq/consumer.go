package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
)

// ErrDiscard помечает ошибку handler, после которой сообщение не имеет смысла
// обрабатывать повторно: оно отбрасывается без возврата в очередь.
var ErrDiscard = errors.New("discard message")

// ConsumerMessage запускает потребителя очереди queueName. Сообщение подтверждается,
// если handler вернул nil, иначе возвращается в очередь. Ошибки с ErrDiscard
// отбрасывают сообщение. Одновременно обрабатывается не более 10 сообщений.
func ConsumerMessage(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queueName string, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("op", op), slog.String("queue", queueName))
	sem := make(chan struct{}, 10)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(d amqp.Delivery) {
					defer func() { <-sem }()
					err := handler(d.Body)
					if errors.Is(err, ErrDiscard) {
						log.Error("message discarded", sl.Err(err))
						if nackErr := d.Nack(false, false); nackErr != nil {
							log.Error("failed to nack message", sl.Err(nackErr))
						}
						return
					}
					if err != nil {
						log.Warn("handler failed, requeue", sl.Err(err))
						if nackErr := d.Nack(false, true); nackErr != nil {
							log.Error("failed to nack message", sl.Err(nackErr))
						}
						return
					}
					if ackErr := d.Ack(false); ackErr != nil {
						log.Error("failed to ack message", sl.Err(ackErr))
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

package rabbitmq

// Exchange — direct-обменник, через который ходят все уведомления.
const Exchange = "notifications"

// Ключи маршрутизации уведомлений.
const (
	RoutingDeadline   = "deadline"
	RoutingNewsletter = "newsletter"
)

// Имена очередей, которые слушает notification-sender.
const (
	QueueDeadline   = "notification.deadline"
	QueueNewsletter = "notification.newsletter"
)

// QueueConfig связывает очередь с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueDeadline, RoutingKey: RoutingDeadline},
		{QueueName: QueueNewsletter, RoutingKey: RoutingNewsletter},
	}
}

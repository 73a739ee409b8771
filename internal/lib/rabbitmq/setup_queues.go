package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации для привязки к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetAnalyticsQueues возвращает очереди, которые читают выгрузчики аналитики.
func GetAnalyticsQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "analytics.consent", RoutingKey: "consent.*"},
		{QueueName: "analytics.track", RoutingKey: "track.*"},
	}
}

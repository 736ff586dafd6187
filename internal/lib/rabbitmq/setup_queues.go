package rabbitmq

// Exchange is the direct exchange all notification queues bind to.
const Exchange = "notifications"

// Routing keys for notification messages.
const (
	RoutingInvite      = "invite"
	RoutingTrialExpiry = "trial-expiry"
)

// QueueConfig names a queue and the routing key it is bound with.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues returns the queues consumed by the mailer worker.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification.invite", RoutingKey: RoutingInvite},
		{QueueName: "notification.trial-expiry", RoutingKey: RoutingTrialExpiry},
	}
}

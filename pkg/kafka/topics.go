package kafka

import "fmt"

// TopicPrefix namespaces all topics produced by this application.
const TopicPrefix = "storefront"

// Topic builds a fully qualified topic name, e.g. Topic("order", "placed")
// returns "storefront.order.placed".
func Topic(domain, action string) string {
	return fmt.Sprintf("%s.%s.%s", TopicPrefix, domain, action)
}

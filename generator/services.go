package generator

import "fmt"

var serviceNameTemplates = []string{
	"auth-service", "user-service", "order-service", "payment-service",
	"inventory-service", "notification-service", "search-service",
	"analytics-service", "gateway-service", "billing-service",
	"shipping-service", "catalog-service", "review-service",
	"recommendation-service", "email-service", "scheduler-service",
	"config-service", "audit-service", "report-service", "cache-service",
	"media-service", "webhook-service", "export-service", "import-service",
	"monitoring-service", "logging-service", "discovery-service",
	"rate-limiter-service", "session-service", "tenant-service",
}

// ServiceNames returns n names that look like real microservices. Past the
// built-in list they are numbered.
func ServiceNames(n int) []string {
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if i < len(serviceNameTemplates) {
			names = append(names, serviceNameTemplates[i])
			continue
		}
		names = append(names, fmt.Sprintf("microservice-%d", i+1))
	}
	return names
}

package content

var (
	httpMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS", "HEAD"}

	apiPaths = []string{
		"/api/v1/users", "/api/v1/orders", "/api/v1/products", "/api/v1/inventory",
		"/api/v1/payments", "/api/v1/shipments", "/api/v1/notifications",
		"/api/v2/users", "/api/v2/orders", "/api/v2/products",
		"/api/v2/analytics", "/api/v2/reports", "/api/v2/search",
		"/api/v3/accounts", "/api/v3/transactions", "/api/v3/webhooks",
		"/api/internal/health", "/api/internal/metrics", "/api/internal/config",
		"/api/v1/auth/login", "/api/v1/auth/logout", "/api/v1/auth/refresh",
		"/api/v1/auth/verify", "/api/v1/roles", "/api/v1/permissions",
		"/api/v1/tenants", "/api/v1/subscriptions", "/api/v1/billing",
		"/api/v1/invoices", "/api/v1/coupons", "/api/v1/discounts",
		"/api/v1/catalog", "/api/v1/categories", "/api/v1/tags",
		"/api/v1/comments", "/api/v1/reviews", "/api/v1/ratings",
		"/api/v1/feeds", "/api/v1/timelines", "/api/v1/messages",
		"/api/v1/threads", "/api/v1/attachments", "/api/v1/uploads",
		"/api/v1/downloads", "/api/v1/exports", "/api/v1/imports",
	}

	statusOK   = []int{200, 201, 202, 204}
	statusWarn = []int{301, 302, 304, 400, 401, 403, 404, 405, 408, 409, 429}
	statusErr  = []int{500, 502, 503, 504}

	dbTables = []string{
		"users", "orders", "products", "sessions", "payments", "audit_log",
		"inventory", "shipments", "notifications", "events", "metrics",
		"configurations", "tenants", "subscriptions", "invoices", "accounts",
		"transactions", "roles", "permissions", "tags", "categories",
		"comments", "reviews", "feeds", "messages", "attachments",
		"cache_entries", "job_queue", "dead_letter_queue", "rate_limits",
	}

	dbOperations = []string{
		"SELECT", "INSERT", "UPDATE", "DELETE", "UPSERT", "COUNT", "AGGREGATE",
		"JOIN", "INDEX SCAN", "SEQ SCAN", "VACUUM", "ANALYZE",
	}

	cacheKeys = []string{
		"user_profile", "session_token", "product_catalog", "price_matrix",
		"feature_flags", "rate_limit_counter", "geo_lookup", "config_snapshot",
		"auth_permissions", "tenant_settings", "search_results", "api_response",
		"inventory_count", "order_summary", "notification_prefs", "dashboard_data",
	}

	regions = []string{"us-east-1", "us-west-2", "eu-west-1", "ap-southeast-1"}

	queueNames = []string{
		"order-processing", "email-notifications", "payment-webhooks",
		"inventory-sync", "analytics-events", "audit-trail", "user-onboarding",
		"report-generation", "data-export", "search-indexing",
		"image-processing", "pdf-generation", "sms-notifications",
		"push-notifications", "batch-processing", "etl-pipeline",
	}

	externalServices = []string{
		"Stripe API", "SendGrid", "Twilio", "AWS S3", "AWS SQS", "Redis Cluster",
		"Elasticsearch", "PostgreSQL Primary", "PostgreSQL Replica", "MongoDB",
		"RabbitMQ", "Kafka Broker", "Consul", "Vault", "Datadog", "PagerDuty",
		"Slack Webhook", "GitHub API", "Google Maps API", "Auth0",
		"Cloudflare", "Fastly CDN", "New Relic", "Sentry", "LaunchDarkly",
	}

	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36",
		"PostmanRuntime/7.32.3",
		"python-requests/2.31.0",
		"Go-http-client/2.0",
		"curl/8.1.2",
		"okhttp/4.12.0",
		"Apache-HttpClient/4.5.14",
		"grpc-java/1.58.0",
	}

	errorTypes = []string{
		"NullPointerException", "ConnectionTimeoutException", "OutOfMemoryError",
		"SocketException", "IOException", "SerializationException",
		"DeserializationError", "AuthenticationException", "AuthorizationException",
		"RateLimitExceededException", "CircuitBreakerOpenException",
		"RetryExhaustedException", "ValidationException", "ConflictException",
		"ResourceNotFoundException", "ServiceUnavailableException",
		"GatewayTimeoutException", "BadRequestException", "InternalServerError",
		"DatabaseConnectionException", "LockAcquisitionException",
		"OptimisticLockException", "DeadlockDetectedException",
		"MessageParsingException", "SchemaValidationException",
		"CertificateExpiredException", "SSLHandshakeException",
		"DNSResolutionException", "DiskFullException", "QuotaExceededException",
	}

	stackFrames = []string{
		"at com.enterprise.service.UserService.findById(UserService.java:142)",
		"at com.enterprise.service.OrderService.processOrder(OrderService.java:87)",
		"at com.enterprise.repository.BaseRepository.execute(BaseRepository.java:56)",
		"at com.enterprise.controller.ApiController.handleRequest(ApiController.java:203)",
		"at com.enterprise.middleware.AuthFilter.doFilter(AuthFilter.java:34)",
		"at com.enterprise.cache.CacheManager.get(CacheManager.java:91)",
		"at com.enterprise.queue.MessageConsumer.onMessage(MessageConsumer.java:67)",
		"at com.enterprise.db.ConnectionPool.getConnection(ConnectionPool.java:145)",
		"at com.enterprise.http.RetryHandler.execute(RetryHandler.java:78)",
		"at com.enterprise.serialization.JsonMapper.deserialize(JsonMapper.java:112)",
		"at com.enterprise.validation.RequestValidator.validate(RequestValidator.java:53)",
		"at com.enterprise.circuit.CircuitBreaker.call(CircuitBreaker.java:89)",
		"at org.springframework.web.servlet.DispatcherServlet.doDispatch(DispatcherServlet.java:1067)",
		"at org.apache.tomcat.util.threads.TaskThread$WrappingRunnable.run(TaskThread.java:61)",
		"at java.base/java.util.concurrent.ThreadPoolExecutor.runWorker(ThreadPoolExecutor.java:1136)",
		"at java.base/java.lang.Thread.run(Thread.java:833)",
	}

	infoTemplates = []string{
		"Request completed successfully",
		"Database query executed",
		"Cache operation completed",
		"Message published to queue",
		"Message consumed from queue",
		"Health check passed",
		"Configuration reloaded",
		"External service call succeeded",
		"Session validated for user",
		"Batch job started",
		"Batch job completed",
		"Scheduled task executed",
		"Connection pool stats reported",
		"Feature flag evaluated",
		"Metrics flushed to collector",
		"Graceful shutdown initiated",
		"Service instance registered with discovery",
		"SSL certificate verified",
		"Rate limit check passed",
		"Distributed lock acquired",
		"Distributed lock released",
		"Data export completed",
		"Search index updated",
		"Webhook delivered successfully",
		"Background worker processing item",
		"Tenant context initialized",
		"Circuit breaker status: CLOSED",
		"Retry attempt succeeded",
		"File upload completed",
		"PDF report generated",
		"Email notification queued",
		"Push notification sent",
		"User authentication successful",
		"Token refresh completed",
		"API key validated",
		"CORS preflight request handled",
		"Request rate within threshold",
		"GC pause recorded",
		"Thread pool utilization reported",
		"Memory usage within bounds",
	}

	warnTemplates = []string{
		"Slow query detected",
		"High memory utilization detected",
		"Connection pool near capacity",
		"Rate limit threshold approaching",
		"Deprecated API version used",
		"Cache miss ratio elevated",
		"Retry attempt required",
		"Response time exceeded SLA threshold",
		"Certificate expiring soon",
		"Disk space below threshold",
		"Queue depth increasing",
		"External service degraded performance",
		"Request payload size unusually large",
		"Stale cache entry detected",
		"Partial failure in batch operation",
		"Circuit breaker status: HALF-OPEN",
		"Thread pool saturation warning",
		"DNS resolution slow",
		"Upstream service returned non-standard response",
		"Schema version mismatch detected",
		"Failover to secondary database triggered",
		"Log buffer near capacity",
		"Excessive connection churn detected",
		"Token expiration imminent",
		"Orphaned resource detected during cleanup",
	}

	errorTemplates = []string{
		"Request processing failed",
		"Database connection lost",
		"External service call failed",
		"Message processing failed",
		"Authentication failed",
		"Authorization denied",
		"Circuit breaker tripped: OPEN",
		"All retry attempts exhausted",
		"Data validation failed",
		"Unhandled exception in request handler",
		"Out of memory: heap space exhausted",
		"Deadlock detected in transaction",
		"Connection refused by upstream",
		"SSL handshake failed",
		"Corrupt message received from queue",
		"Database constraint violation",
		"Timeout waiting for distributed lock",
		"Service discovery lookup failed",
		"Configuration parsing error",
		"Critical: health check failed",
		"Disk write failed: no space left on device",
		"Fatal: unable to bind to port",
		"Cascade failure detected across services",
		"Data integrity check failed",
		"Backup process failed",
	}

	adjectives = []string{
		"primary", "secondary", "cached", "stale", "partial", "complete",
		"encrypted", "compressed", "validated", "sanitized", "normalized",
		"aggregated", "batched", "streamed", "replicated", "sharded",
	}

	authActions   = []string{"login", "logout", "token_refresh", "password_change", "mfa_verify", "api_key_rotate"}
	authProviders = []string{"oauth2", "saml", "ldap", "local", "oidc"}
	featureFlags  = []string{"dark_mode", "new_checkout_flow", "beta_search", "ai_recommendations", "v2_pricing", "graphql_gateway"}
	flagVariants  = []string{"control", "treatment_a", "treatment_b"}
	userSegments  = []string{"enterprise", "pro", "free", "trial", "internal"}
	metricsSinks  = []string{"datadog", "prometheus", "graphite", "influxdb", "cloudwatch"}
	components    = []string{"worker", "scheduler", "gateway", "processor", "aggregator"}
)

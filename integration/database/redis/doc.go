// Package redis provides Redis client initialization and health checking
// for the session security store.
//
// Connect validates the connection URL, attempts connection with retries,
// and verifies connectivity with a ping before returning the client:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		// the guard still works without the store; audit is lost
//	}
//	defer client.Close()
//
// Healthcheck returns a ping-based probe function for readiness
// endpoints. Both redis:// and rediss:// (TLS) URL schemes are supported.
package redis

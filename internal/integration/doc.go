// Package integration runs the service against Postgres and RabbitMQ containers.
// The tests only build with -tags integration.
package integration

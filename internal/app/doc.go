// Package app provides the application service layer.
//
// ConfigStore reads and writes the operator configuration, AuthGuard checks admin credentials
// and WebhookRegistrar points the chat relay at this deployment. All three depend on domain
// interfaces, not on Redis or Telegram directly.
package app

// Package notifier delivers alert notifications to slack, teams and
// generic HTTP webhooks. Webhook URLs come from environment variables
// named in the config, never from the config file itself.
package notifier

// Package bridge exposes the coordination core to presentation and
// navigation collaborators over JSON-RPC. Confirmation visibility changes and
// routable links are pushed to attached transports as notifications;
// submissions, cancellations, session updates and inbound deep links arrive
// as requests and notifications from the other side.
package bridge

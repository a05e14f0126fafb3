/*
Package broker implements a multi-priority publish/subscribe engine with
per-client cursors.

It ingests a high-rate stream of keyed updates and deletes, coalesces
redundant updates by topic key, places them into one of several priority
queues, and lets any number of registered clients drain the queues at their
own pace. The engine guarantees:

  - every live object is eventually observed by every live client,
  - each client observes the latest value for each key, not every
    intermediate version (coalescing),
  - deletions (tombstones) are retained only as long as some client still
    needs to see them,
  - higher-priority updates preempt lower-priority ones (priority
    escalation).

A single instance is created with New, fed via Publish, and drained by one
or more clients created with CreateClient and polled with GetNext. All
exported methods are safe for concurrent use; exactly one producer
goroutine is expected (though not required — Publish calls are serialized
by an internal mutex) and at most one goroutine per client should call
GetNext concurrently.
*/
package broker

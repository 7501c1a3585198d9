// Package resource models the GKE resource hierarchy (cluster manager,
// clusters, node pools) and drives each resource through its asynchronous
// lifecycle: submit a mutation, poll the control plane until it converges,
// and keep a local child map reconciled with provider-side truth.
package resource

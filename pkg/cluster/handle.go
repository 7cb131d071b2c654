// Package cluster manages the lifetime of the Kubernetes API client used by
// the launcher. At most one client is live per Handle; it is built on first
// use and dropped on release so a later start can dial the control plane
// fresh.
package cluster

import (
	"fmt"

	"github.com/go-logr/logr"
	"k8s.io/client-go/rest"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// DefaultMasterURL is the address of the Kubernetes API server as seen from
// inside the cluster.
const DefaultMasterURL = "https://kubernetes:443"

// Factory builds a Kubernetes client for the given control-plane URL.
// Tests substitute a factory returning a fake client.
type Factory func(masterURL string) (client.Client, error)

// DefaultFactory dials the control plane with a rest.Config carrying only
// the master URL.
func DefaultFactory(masterURL string) (client.Client, error) {
	cfg := &rest.Config{Host: masterURL}
	c, err := client.New(cfg, client.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to build cluster client for %s: %w", masterURL, err)
	}
	return c, nil
}

// Handle lazily owns the cluster client. It is not safe for concurrent use;
// callers serialize start and stop on the owning launcher.
type Handle struct {
	masterURL string
	factory   Factory
	log       logr.Logger

	client client.Client
}

// NewHandle returns a Handle dialing masterURL through factory. Empty or nil
// arguments fall back to DefaultMasterURL, DefaultFactory, and the global
// controller-runtime logger.
func NewHandle(masterURL string, factory Factory, log logr.Logger) *Handle {
	if masterURL == "" {
		masterURL = DefaultMasterURL
	}
	if factory == nil {
		factory = DefaultFactory
	}
	if log.GetSink() == nil {
		log = ctrl.Log.WithName("cluster")
	}
	return &Handle{masterURL: masterURL, factory: factory, log: log}
}

// Acquire returns the live client, building one if absent. A construction
// failure is not memoized: the next Acquire dials again.
func (h *Handle) Acquire() (client.Client, error) {
	if h.client != nil {
		return h.client, nil
	}
	h.log.Info("connecting to Kubernetes cluster", "masterURL", h.masterURL)
	c, err := h.factory(h.masterURL)
	if err != nil {
		return nil, err
	}
	h.client = c
	return h.client, nil
}

// Release drops the client so a subsequent Acquire re-creates it.
func (h *Handle) Release() {
	h.client = nil
}

// Live reports whether a client is currently held.
func (h *Handle) Live() bool {
	return h.client != nil
}

// Package testutil provides fake cluster helpers for launcher tests.
package testutil

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// FailureConfig configures when the fake client should return errors.
// Each field is a function that receives the object/key and returns an error
// if the operation should fail.
type FailureConfig struct {
	// OnGet is called before Get operations. Return non-nil to fail the operation.
	OnGet func(key client.ObjectKey) error

	// OnList is called before List operations. Return non-nil to fail the operation.
	OnList func(list client.ObjectList) error

	// OnCreate is called before Create operations. Return non-nil to fail the operation.
	OnCreate func(obj client.Object) error

	// OnDelete is called before Delete operations. Return non-nil to fail the operation.
	OnDelete func(obj client.Object) error
}

// fakeClientWithFailures wraps a real fake client and injects failures based
// on configuration.
type fakeClientWithFailures struct {
	client.Client
	config *FailureConfig
}

// NewFakeClientWithFailures creates a fake client that can be configured to
// fail operations. This is useful for testing error handling paths in the
// launcher's discovery, provisioning, and teardown code.
func NewFakeClientWithFailures(baseClient client.Client, config *FailureConfig) client.Client {
	if config == nil {
		config = &FailureConfig{}
	}
	return &fakeClientWithFailures{
		Client: baseClient,
		config: config,
	}
}

func (c *fakeClientWithFailures) Get(
	ctx context.Context,
	key client.ObjectKey,
	obj client.Object,
	opts ...client.GetOption,
) error {
	if c.config.OnGet != nil {
		if err := c.config.OnGet(key); err != nil {
			return err
		}
	}
	return c.Client.Get(ctx, key, obj, opts...)
}

func (c *fakeClientWithFailures) List(
	ctx context.Context,
	list client.ObjectList,
	opts ...client.ListOption,
) error {
	if c.config.OnList != nil {
		if err := c.config.OnList(list); err != nil {
			return err
		}
	}
	return c.Client.List(ctx, list, opts...)
}

func (c *fakeClientWithFailures) Create(
	ctx context.Context,
	obj client.Object,
	opts ...client.CreateOption,
) error {
	if c.config.OnCreate != nil {
		if err := c.config.OnCreate(obj); err != nil {
			return err
		}
	}
	return c.Client.Create(ctx, obj, opts...)
}

func (c *fakeClientWithFailures) Delete(
	ctx context.Context,
	obj client.Object,
	opts ...client.DeleteOption,
) error {
	if c.config.OnDelete != nil {
		if err := c.config.OnDelete(obj); err != nil {
			return err
		}
	}
	return c.Client.Delete(ctx, obj, opts...)
}

// serviceIPAllocator assigns cluster IPs to created Services, mimicking the
// API server's allocator, which the plain fake client does not implement.
type serviceIPAllocator struct {
	client.Client
	ip string
}

// NewServiceIPAllocator wraps a client so every Service created without a
// cluster IP receives the given one.
func NewServiceIPAllocator(baseClient client.Client, ip string) client.Client {
	return &serviceIPAllocator{Client: baseClient, ip: ip}
}

func (c *serviceIPAllocator) Create(
	ctx context.Context,
	obj client.Object,
	opts ...client.CreateOption,
) error {
	if svc, ok := obj.(*corev1.Service); ok && svc.Spec.ClusterIP == "" {
		svc.Spec.ClusterIP = c.ip
	}
	return c.Client.Create(ctx, obj, opts...)
}

// CountingClient wraps a client and counts API operations, so tests can
// assert that a code path stays off the wire entirely or issued exactly the
// expected calls.
type CountingClient struct {
	client.Client
	Gets    int
	Lists   int
	Creates int
	Deletes int
}

// NewCountingClient wraps baseClient with operation counters.
func NewCountingClient(baseClient client.Client) *CountingClient {
	return &CountingClient{Client: baseClient}
}

// Total returns the total number of counted operations.
func (c *CountingClient) Total() int {
	return c.Gets + c.Lists + c.Creates + c.Deletes
}

func (c *CountingClient) Get(
	ctx context.Context,
	key client.ObjectKey,
	obj client.Object,
	opts ...client.GetOption,
) error {
	c.Gets++
	return c.Client.Get(ctx, key, obj, opts...)
}

func (c *CountingClient) List(
	ctx context.Context,
	list client.ObjectList,
	opts ...client.ListOption,
) error {
	c.Lists++
	return c.Client.List(ctx, list, opts...)
}

func (c *CountingClient) Create(
	ctx context.Context,
	obj client.Object,
	opts ...client.CreateOption,
) error {
	c.Creates++
	return c.Client.Create(ctx, obj, opts...)
}

func (c *CountingClient) Delete(
	ctx context.Context,
	obj client.Object,
	opts ...client.DeleteOption,
) error {
	c.Deletes++
	return c.Client.Delete(ctx, obj, opts...)
}

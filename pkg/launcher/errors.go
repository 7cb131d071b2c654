package launcher

import (
	"errors"
	"fmt"
)

// ErrStartupTimeout is returned by Start when the connect timeout elapses
// before the worker's endpoint becomes reachable. The worker is considered
// not started; there is no partial success.
var ErrStartupTimeout = errors.New("worker endpoint did not become reachable before the connect timeout")

// ClusterUnreachableError classifies failures to reach the control plane
// while building the cluster client.
type ClusterUnreachableError struct {
	Err error
}

func (e *ClusterUnreachableError) Error() string {
	return fmt.Sprintf("cluster unreachable: %v", e.Err)
}

func (e *ClusterUnreachableError) Unwrap() error { return e.Err }

// EndpointProvisionError classifies unexpected failures while looking up or
// creating the endpoint service. Retrying is the poll loop's responsibility,
// not the provisioner's.
type EndpointProvisionError struct {
	ServiceName string
	Err         error
}

func (e *EndpointProvisionError) Error() string {
	return fmt.Sprintf("failed to provision endpoint service %q: %v", e.ServiceName, e.Err)
}

func (e *EndpointProvisionError) Unwrap() error { return e.Err }

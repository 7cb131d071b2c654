package launcher

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/drbinzhao/zeppelin-k8s/pkg/monitoring"
)

// endpointServiceName derives the endpoint service name from the discovered
// pod's name. The derivation is deterministic, so repeated provisioning
// attempts for the same pod converge on one resource.
func endpointServiceName(podName string) string {
	return podName + ServiceNameSuffix
}

// buildEndpointService builds the ClusterIP service fronting the worker pod.
// The selector copies the pod's app selector label, so the service tracks
// whichever pod carries that value.
func (l *Launcher) buildEndpointService(pod *corev1.Pod) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      endpointServiceName(pod.Name),
			Namespace: l.namespace,
		},
		Spec: corev1.ServiceSpec{
			Type: corev1.ServiceTypeClusterIP,
			Selector: map[string]string{
				AppSelectorKey: pod.Labels[AppSelectorKey],
			},
			Ports: []corev1.ServicePort{
				{
					Protocol:   corev1.ProtocolTCP,
					Port:       int32(l.port),
					TargetPort: intstr.FromInt32(int32(l.port)),
				},
			},
		},
	}
}

// getOrCreateEndpointService returns the endpoint service for the pod,
// creating it on first call. A create that loses the race to another
// launcher deriving the same name is treated as success: the winner's
// object is re-read and returned.
func (l *Launcher) getOrCreateEndpointService(
	ctx context.Context,
	c client.Client,
	pod *corev1.Pod,
) (*corev1.Service, error) {
	name := endpointServiceName(pod.Name)
	key := client.ObjectKey{Namespace: l.namespace, Name: name}

	existing := &corev1.Service{}
	err := c.Get(ctx, key, existing)
	if err == nil {
		l.service = existing
		return existing, nil
	}
	if !errors.IsNotFound(err) {
		return nil, &EndpointProvisionError{ServiceName: name, Err: err}
	}

	desired := l.buildEndpointService(pod)
	l.log.Info("creating worker endpoint service",
		"service", name, "selector", pod.Labels[AppSelectorKey])
	if err := c.Create(ctx, desired); err != nil {
		if errors.IsAlreadyExists(err) {
			if err := c.Get(ctx, key, existing); err == nil {
				l.service = existing
				return existing, nil
			}
		}
		return nil, &EndpointProvisionError{ServiceName: name, Err: err}
	}

	monitoring.EndpointCreated()
	l.service = desired
	return desired, nil
}

package launcher

import (
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/intstr"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/drbinzhao/zeppelin-k8s/pkg/testutil"
)

func newEndpointTestLauncher(t *testing.T) *Launcher {
	t.Helper()
	return New(Config{
		GroupID:   "testgroup",
		GroupName: "spark",
		Worker:    &fakeWorker{port: 30000},
		Clock:     fixedClock,
		Logger:    logr.Discard(),
	})
}

func TestGetOrCreateEndpointServiceShape(t *testing.T) {
	t.Parallel()

	l := newEndpointTestLauncher(t)
	pod := newWorkerPod("zri-spark-driver-1", l.ProcessLabel(), corev1.PodRunning)
	c := fake.NewClientBuilder().Build()

	svc, err := l.getOrCreateEndpointService(t.Context(), c, pod)
	if err != nil {
		t.Fatalf("getOrCreateEndpointService() error = %v", err)
	}

	if got, want := svc.Name, "zri-spark-driver-1-ri-svc"; got != want {
		t.Errorf("service name = %q, want %q", got, want)
	}

	want := corev1.ServiceSpec{
		Type: corev1.ServiceTypeClusterIP,
		Selector: map[string]string{
			AppSelectorKey: "spark-application-1500000000000",
		},
		Ports: []corev1.ServicePort{
			{
				Protocol:   corev1.ProtocolTCP,
				Port:       30000,
				TargetPort: intstr.FromInt32(30000),
			},
		},
	}
	if diff := cmp.Diff(want, svc.Spec); diff != "" {
		t.Errorf("service spec mismatch (-want +got):\n%s", diff)
	}
}

// TestGetOrCreateEndpointServiceIdempotent checks that repeated provisioning
// for the same pod yields exactly one underlying resource.
func TestGetOrCreateEndpointServiceIdempotent(t *testing.T) {
	t.Parallel()

	l := newEndpointTestLauncher(t)
	pod := newWorkerPod("zri-spark-driver-1", l.ProcessLabel(), corev1.PodRunning)
	c := testutil.NewCountingClient(
		testutil.NewServiceIPAllocator(fake.NewClientBuilder().Build(), "10.96.0.200"),
	)

	first, err := l.getOrCreateEndpointService(t.Context(), c, pod)
	if err != nil {
		t.Fatalf("first getOrCreateEndpointService() error = %v", err)
	}
	second, err := l.getOrCreateEndpointService(t.Context(), c, pod)
	if err != nil {
		t.Fatalf("second getOrCreateEndpointService() error = %v", err)
	}

	if c.Creates != 1 {
		t.Errorf("Create called %d times, want 1", c.Creates)
	}
	if first.Name != second.Name {
		t.Errorf("service names diverged: %q vs %q", first.Name, second.Name)
	}
	if second.Spec.ClusterIP != "10.96.0.200" {
		t.Errorf("second call ClusterIP = %q, want the assigned address", second.Spec.ClusterIP)
	}

	services := &corev1.ServiceList{}
	if err := c.List(t.Context(), services, client.InNamespace(Namespace)); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(services.Items) != 1 {
		t.Errorf("cluster holds %d services, want 1", len(services.Items))
	}
}

// TestGetOrCreateEndpointServiceLostRace simulates another launcher creating
// the same-named service between our lookup and our create. The winner's
// object must be adopted as success.
func TestGetOrCreateEndpointServiceLostRace(t *testing.T) {
	t.Parallel()

	l := newEndpointTestLauncher(t)
	pod := newWorkerPod("zri-spark-driver-1", l.ProcessLabel(), corev1.PodRunning)

	winner := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "zri-spark-driver-1-ri-svc",
			Namespace: Namespace,
		},
		Spec: corev1.ServiceSpec{ClusterIP: "10.96.0.9"},
	}
	gets := 0
	c := testutil.NewFakeClientWithFailures(
		fake.NewClientBuilder().WithObjects(winner).Build(),
		&testutil.FailureConfig{
			OnGet: func(key client.ObjectKey) error {
				gets++
				if gets == 1 {
					// Pretend the winner's create has not landed yet.
					return apierrors.NewNotFound(
						schema.GroupResource{Resource: "services"}, key.Name)
				}
				return nil
			},
		},
	)

	svc, err := l.getOrCreateEndpointService(t.Context(), c, pod)
	if err != nil {
		t.Fatalf("getOrCreateEndpointService() error = %v", err)
	}
	if svc.Spec.ClusterIP != "10.96.0.9" {
		t.Errorf("ClusterIP = %q, want the winner's %q", svc.Spec.ClusterIP, "10.96.0.9")
	}
}

func TestGetOrCreateEndpointServiceErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		config *testutil.FailureConfig
	}{
		"unexpected lookup failure": {
			config: &testutil.FailureConfig{
				OnGet: func(key client.ObjectKey) error {
					return errors.New("etcdserver: request timed out")
				},
			},
		},
		"create failure": {
			config: &testutil.FailureConfig{
				OnCreate: func(obj client.Object) error {
					return errors.New("admission denied")
				},
			},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			l := newEndpointTestLauncher(t)
			pod := newWorkerPod("zri-spark-driver-1", l.ProcessLabel(), corev1.PodRunning)
			c := testutil.NewFakeClientWithFailures(fake.NewClientBuilder().Build(), test.config)

			_, err := l.getOrCreateEndpointService(t.Context(), c, pod)
			var provisionErr *EndpointProvisionError
			if !errors.As(err, &provisionErr) {
				t.Fatalf("error = %v, want an EndpointProvisionError", err)
			}
			if provisionErr.ServiceName != "zri-spark-driver-1-ri-svc" {
				t.Errorf("ServiceName = %q", provisionErr.ServiceName)
			}
		})
	}
}

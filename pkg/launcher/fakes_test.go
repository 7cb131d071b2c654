package launcher

import (
	"context"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// fakeWorker stands in for the subprocess collaborator so lifecycle tests
// never fork a real process.
type fakeWorker struct {
	startErr error
	started  bool
	running  bool
	port     int
	timeout  time.Duration
}

func (w *fakeWorker) Start(ctx context.Context, groupLabel, processLabel, user string, impersonate bool) error {
	if w.startErr != nil {
		return w.startErr
	}
	w.started = true
	return nil
}

func (w *fakeWorker) Port() int                     { return w.port }
func (w *fakeWorker) ConnectTimeout() time.Duration { return w.timeout }
func (w *fakeWorker) SetRunning(v bool)             { w.running = v }

// fakeChecker reports a fixed reachability answer and counts calls.
type fakeChecker struct {
	reachable bool
	calls     int
}

func (c *fakeChecker) Reachable(host string, port int) bool {
	c.calls++
	return c.reachable
}

// newWorkerPod builds a pod the way the submission tooling would: named with
// the group prefix, tagged with the identity label and the app selector.
func newWorkerPod(name, processLabel string, phase corev1.PodPhase) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: Namespace,
			Labels: map[string]string{
				ProcessLabelKey: processLabel,
				AppSelectorKey:  "spark-application-1500000000000",
			},
		},
		Status: corev1.PodStatus{Phase: phase},
	}
}

// fixedClock pins the process label derivation so tests can predict it.
func fixedClock() time.Time {
	return time.UnixMilli(1500000000000)
}

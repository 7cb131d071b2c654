package launcher

import (
	"context"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// findRunningPod lists pods carrying this launcher's identity label and
// returns the first whose name matches the expected prefix and whose phase
// is running, case-insensitively. Everything else collapses into nil: no
// match, a pod still pending, and a failed list call all look the same to
// the poll loop, which treats nil as "retry later". The asymmetry is
// intentional; a flaky control plane must not abort a start that would
// succeed on the next probe.
func (l *Launcher) findRunningPod(ctx context.Context, c client.Client) *corev1.Pod {
	pods := &corev1.PodList{}
	err := c.List(ctx, pods,
		client.InNamespace(l.namespace),
		client.MatchingLabels{ProcessLabelKey: l.processLabel},
	)
	if err != nil {
		l.log.Error(err, "failed to list worker pods", "label", l.processLabel)
		return nil
	}
	if len(pods.Items) == 0 {
		l.log.V(1).Info("worker pod not found", "label", l.processLabel)
		return nil
	}

	prefix := PodNamePrefix + l.groupName
	for i := range pods.Items {
		pod := &pods.Items[i]
		if !strings.HasPrefix(pod.Name, prefix) {
			continue
		}
		l.log.V(1).Info("worker pod found", "pod", pod.Name, "phase", pod.Status.Phase)
		if strings.EqualFold(string(pod.Status.Phase), string(corev1.PodRunning)) {
			return pod
		}
	}
	return nil
}

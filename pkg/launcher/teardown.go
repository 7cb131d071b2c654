package launcher

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/drbinzhao/zeppelin-k8s/pkg/monitoring"
)

// TeardownStatus reports how Stop completed. Stop never raises; callers that
// care inspect the status, so a cleanup failure can never mask a more
// important upstream error.
type TeardownStatus int

const (
	// TeardownSkipped means no pod was ever discovered, so there was
	// nothing to clean up and no cluster call was made.
	TeardownSkipped TeardownStatus = iota
	// TeardownComplete means the endpoint service is gone.
	TeardownComplete
	// TeardownFailed means cleanup could not finish; the failure was logged.
	TeardownFailed
)

func (s TeardownStatus) String() string {
	switch s {
	case TeardownSkipped:
		return "skipped"
	case TeardownComplete:
		return "complete"
	case TeardownFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Stop deletes the endpoint service created for the worker, if any, and
// releases the cluster client so a later Start dials fresh. Cleanup is best
// effort by design: failures are logged and reflected in the status.
func (l *Launcher) Stop(ctx context.Context) TeardownStatus {
	if l.podName == "" {
		return TeardownSkipped
	}

	ctx, span := monitoring.StartLaunchSpan(ctx, "Launcher.Stop", l.processLabel, l.namespace)
	defer span.End()
	defer l.handle.Release()

	c, err := l.handle.Acquire()
	if err != nil {
		l.log.Error(err, "failed to reach cluster for teardown")
		monitoring.RecordSpanError(span, err)
		return TeardownFailed
	}

	svc := l.service
	if svc == nil {
		// The service reference is gone but the pod name survives, so
		// delete by the derived name.
		svc = &corev1.Service{
			ObjectMeta: metav1.ObjectMeta{
				Name:      endpointServiceName(l.podName),
				Namespace: l.namespace,
			},
		}
	}
	if err := c.Delete(ctx, svc); err != nil && !errors.IsNotFound(err) {
		l.log.Error(err, "failed to delete worker endpoint service", "service", svc.Name)
		monitoring.RecordSpanError(span, err)
		return TeardownFailed
	}

	l.log.Info("deleted worker endpoint service", "service", svc.Name)
	if l.service != nil {
		monitoring.EndpointDeleted()
		l.service = nil
	}
	return TeardownComplete
}

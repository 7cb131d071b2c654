package launcher

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/drbinzhao/zeppelin-k8s/pkg/cluster"
	"github.com/drbinzhao/zeppelin-k8s/pkg/launcher/identity"
	"github.com/drbinzhao/zeppelin-k8s/pkg/monitoring"
	"github.com/drbinzhao/zeppelin-k8s/pkg/probe"
)

// WorkerProcess is the subprocess collaborator the launcher drives.
// process.Runner implements it; tests substitute a fake.
type WorkerProcess interface {
	// Start launches the submission command that eventually materializes the
	// worker pod in the cluster.
	Start(ctx context.Context, groupLabel, processLabel, user string, impersonate bool) error
	// Port returns the port the worker binds.
	Port() int
	// ConnectTimeout bounds how long Start may poll for readiness.
	ConnectTimeout() time.Duration
	// SetRunning flips the worker's running flag.
	SetRunning(bool)
}

// Config carries the inputs needed to construct a Launcher. Zero values fall
// back to the fixed cluster constants; the factory, clock, and poll interval
// exist so tests can substitute fakes and compress time.
type Config struct {
	// GroupID is the raw interpreter group id, e.g. "2C3VJ5BQW:shared_process".
	GroupID string
	// GroupName is the interpreter group name used in the pod name prefix.
	GroupName string
	// Worker is the subprocess collaborator.
	Worker WorkerProcess
	// Checker answers reachability; defaults to a TCP dial.
	Checker probe.Checker
	// Namespace defaults to Namespace.
	Namespace string
	// MasterURL defaults to cluster.DefaultMasterURL.
	MasterURL string
	// ClientFactory defaults to cluster.DefaultFactory.
	ClientFactory cluster.Factory
	// PollInterval defaults to 500ms.
	PollInterval time.Duration
	// Clock defaults to time.Now; it feeds the process label derivation.
	Clock func() time.Time
	// Logger defaults to the global controller-runtime logger.
	Logger logr.Logger
}

// Launcher drives one worker from submission to a reachable endpoint.
// Not safe for concurrent use.
type Launcher struct {
	log logr.Logger

	namespace string
	port      int

	groupName    string
	groupLabel   string
	processLabel string

	handle  *cluster.Handle
	worker  WorkerProcess
	checker probe.Checker

	pollInterval time.Duration

	// podName is retained from the first successful discovery; it derives
	// the endpoint service name and guards teardown.
	podName string
	service *corev1.Service
	host    string
}

// New constructs a Launcher. The process label is derived once, here, and is
// immutable for the Launcher's lifetime.
func New(cfg Config) *Launcher {
	log := cfg.Logger
	if log.GetSink() == nil {
		log = ctrl.Log.WithName("launcher")
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = Namespace
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	checker := cfg.Checker
	if checker == nil {
		checker = probe.TCP{}
	}
	port := DefaultPort
	if cfg.Worker != nil && cfg.Worker.Port() != 0 {
		port = cfg.Worker.Port()
	}
	return &Launcher{
		log:          log,
		namespace:    namespace,
		port:         port,
		groupName:    cfg.GroupName,
		groupLabel:   identity.GroupLabel(cfg.GroupID),
		processLabel: identity.ProcessLabel(cfg.GroupID, now()),
		handle:       cluster.NewHandle(cfg.MasterURL, cfg.ClientFactory, log),
		worker:       cfg.Worker,
		checker:      checker,
		pollInterval: interval,
	}
}

// probeOutcome is the explicit tri-state result of one poll iteration; the
// poller branches on this value instead of using errors for control flow.
type probeOutcome int

const (
	probeNotYetReady probeOutcome = iota
	probeReady
	probeClusterError
)

// Start launches the worker process and blocks until its endpoint is
// reachable or the connect timeout elapses. On success the worker's running
// flag is set and the endpoint host recorded; on timeout ErrStartupTimeout
// is returned and the worker is considered not started.
func (l *Launcher) Start(ctx context.Context, user string, impersonate bool) error {
	ctx, span := monitoring.StartLaunchSpan(ctx, "Launcher.Start", l.processLabel, l.namespace)
	defer span.End()

	if err := l.worker.Start(ctx, l.groupLabel, l.processLabel, user, impersonate); err != nil {
		err = fmt.Errorf("failed to launch worker process: %w", err)
		monitoring.RecordSpanError(span, err)
		return err
	}

	begin := time.Now()
	timeout := l.worker.ConnectTimeout()
	for time.Since(begin) < timeout {
		if l.probeOnce(ctx) == probeReady {
			l.worker.SetRunning(true)
			monitoring.ObserveStartup(time.Since(begin))
			l.log.Info("worker endpoint reachable", "host", l.host, "port", l.port)
			return nil
		}
		select {
		case <-ctx.Done():
			monitoring.RecordSpanError(span, ctx.Err())
			return ctx.Err()
		case <-time.After(l.pollInterval):
		}
	}

	monitoring.RecordStartupTimeout()
	err := fmt.Errorf("%w (waited %s)", ErrStartupTimeout, timeout)
	monitoring.RecordSpanError(span, err)
	return err
}

// probeOnce runs one discovery + provisioning + reachability attempt. All
// failure classes collapse into a retryable outcome; nothing escalates out
// of a single iteration.
func (l *Launcher) probeOnce(ctx context.Context) probeOutcome {
	host, err := l.ObtainEndpointHost(ctx)
	if err != nil {
		monitoring.RecordProbe(monitoring.OutcomeClusterError)
		l.log.V(1).Info("probe failed", "error", err.Error())
		return probeClusterError
	}
	if host == "" {
		monitoring.RecordProbe(monitoring.OutcomeNotYetReady)
		return probeNotYetReady
	}
	l.host = host
	if !l.checker.Reachable(host, l.port) {
		monitoring.RecordProbe(monitoring.OutcomeNotYetReady)
		l.log.V(1).Info("worker not yet reachable", "host", host, "port", l.port)
		return probeNotYetReady
	}
	monitoring.RecordProbe(monitoring.OutcomeReady)
	return probeReady
}

// ObtainEndpointHost resolves the cluster-internal address the worker is
// reachable at, provisioning the endpoint service on first success. It
// returns "" while the worker's pod has not yet been scheduled or has not
// entered its running phase; callers are expected to retry.
func (l *Launcher) ObtainEndpointHost(ctx context.Context) (string, error) {
	ctx, span := monitoring.StartChildSpan(ctx, "Launcher.ObtainEndpointHost")
	defer span.End()

	c, err := l.handle.Acquire()
	if err != nil {
		cerr := &ClusterUnreachableError{Err: err}
		monitoring.RecordSpanError(span, cerr)
		return "", cerr
	}
	pod := l.findRunningPod(ctx, c)
	if pod == nil {
		return "", nil
	}
	l.podName = pod.Name
	svc, err := l.getOrCreateEndpointService(ctx, c, pod)
	if err != nil {
		monitoring.RecordSpanError(span, err)
		return "", err
	}
	return svc.Spec.ClusterIP, nil
}

// Host returns the endpoint host recorded by the last successful probe, or
// "" if the worker never became reachable.
func (l *Launcher) Host() string { return l.host }

// Port returns the worker's port.
func (l *Launcher) Port() int { return l.port }

// PodName returns the name of the discovered worker pod, or "" before the
// first successful discovery.
func (l *Launcher) PodName() string { return l.podName }

// ProcessLabel returns the identity label tagging this worker's pod.
func (l *Launcher) ProcessLabel() string { return l.processLabel }

// GroupLabel returns the sanitized interpreter group id.
func (l *Launcher) GroupLabel() string { return l.groupLabel }

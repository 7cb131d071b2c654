package launcher

import "time"

const (
	// ProcessLabelKey is the pod label carrying this launcher's identity.
	// The submission tooling stamps it onto the worker pod so we can re-find
	// the pod after the cluster scheduler places it.
	ProcessLabelKey = "interpreter-processId"

	// AppSelectorKey is the pod label the endpoint service selects on.
	AppSelectorKey = "spark-app-selector"

	// ServiceNameSuffix is appended to the discovered pod's name to derive
	// the endpoint service name.
	ServiceNameSuffix = "-ri-svc"

	// PodNamePrefix starts every worker pod name, followed by the
	// interpreter group name.
	PodNamePrefix = "zri-"

	// Namespace is the fixed namespace all worker resources live in.
	Namespace = "default"

	// DefaultPort is the port the remote interpreter server binds.
	DefaultPort = 30000
)

// defaultPollInterval separates consecutive readiness probes.
const defaultPollInterval = 500 * time.Millisecond

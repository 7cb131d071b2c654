// Package launcher starts a remote interpreter worker on Kubernetes and
// drives it to readiness.
//
// One Launcher tracks exactly one worker lifecycle, in memory: it launches
// the submission command, discovers the worker's pod by an identity label,
// fronts the pod with a ClusterIP service, polls until the service address
// accepts connections, and deletes the service on stop. Start and Stop are
// not designed for concurrent invocation on the same Launcher; callers must
// serialize them. Separate Launcher instances are independent.
package launcher

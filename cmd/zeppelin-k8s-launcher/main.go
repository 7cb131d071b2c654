package main

import (
	"context"
	"flag"
	"os"
	"time"

	// Import all Kubernetes client auth plugins (e.g. Azure, GCP, OIDC, etc.)
	_ "k8s.io/client-go/plugin/pkg/client/auth"

	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/drbinzhao/zeppelin-k8s/pkg/cluster"
	"github.com/drbinzhao/zeppelin-k8s/pkg/launcher"
	"github.com/drbinzhao/zeppelin-k8s/pkg/process"
)

func main() {
	var runnerPath string
	var interpreterDir string
	var localRepoDir string
	var groupID string
	var groupName string
	var user string
	var impersonate bool
	var port int
	var connectTimeout time.Duration
	var masterURL string

	flag.StringVar(&runnerPath, "runner", "bin/interpreter.sh", "Path to the interpreter runner script.")
	flag.StringVar(&interpreterDir, "interpreter-dir", "", "Directory the remote interpreter runs from.")
	flag.StringVar(&localRepoDir, "local-repo", "", "Local dependency repository directory.")
	flag.StringVar(&groupID, "group-id", "", "Interpreter group id tagging the worker pod.")
	flag.StringVar(&groupName, "group-name", "spark", "Interpreter group name; worker pods are named zri-<group-name>...")
	flag.StringVar(&user, "user", "anonymous", "User to run the interpreter as.")
	flag.BoolVar(&impersonate, "impersonate", false, "Impersonate the user when launching the interpreter.")
	flag.IntVar(&port, "port", launcher.DefaultPort, "Port the remote interpreter server binds.")
	flag.DurationVar(&connectTimeout, "connect-timeout", 5*time.Minute, "How long to wait for the worker endpoint to become reachable.")
	flag.StringVar(&masterURL, "master-url", cluster.DefaultMasterURL, "Kubernetes API server URL.")

	opts := zap.Options{Development: true}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))
	log := ctrl.Log.WithName("launcher")

	runner := process.NewRunner(process.Config{
		Path:           runnerPath,
		InterpreterDir: interpreterDir,
		LocalRepoDir:   localRepoDir,
		GroupName:      groupName,
		Port:           port,
		ConnectTimeout: connectTimeout,
	})

	l := launcher.New(launcher.Config{
		GroupID:   groupID,
		GroupName: groupName,
		Worker:    runner,
		MasterURL: masterURL,
		Logger:    log,
	})

	ctx := ctrl.SetupSignalHandler()

	if err := l.Start(ctx, user, impersonate); err != nil {
		log.Error(err, "unable to start worker", "output", runner.Output())
		runner.Kill()
		os.Exit(1)
	}
	log.Info("worker running", "host", l.Host(), "port", l.Port(), "pod", l.PodName())

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	status := l.Stop(stopCtx)
	log.Info("teardown finished", "status", status.String())
	runner.Kill()
}

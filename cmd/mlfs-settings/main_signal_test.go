package main

import (
	"bytes"
	"os"
	"os/exec"
	osSignal "os/signal"
	"syscall"
	"testing"
	"time"
)

func TestExecForwardsTermination(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	t.Cleanup(func() {
		signalNotify = osSignal.Notify
	})

	signalNotify = func(ch chan<- os.Signal, sig ...os.Signal) {
		go func() {
			time.Sleep(50 * time.Millisecond)
			ch <- syscall.SIGTERM
		}()
	}

	defs := missingDefinitions(t)
	var stdout, stderr bytes.Buffer
	done := make(chan int, 1)
	go func() {
		done <- run([]string{"--definitions", defs, "exec", "--", "sleep", "10"}, &stdout, &stderr)
	}()

	select {
	case code := <-done:
		if code == 0 {
			t.Fatalf("expected non-zero exit code for a terminated child")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("expected child to stop after the forwarded signal")
	}
}

func TestExecPropagatesExitCode(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"--definitions", missingDefinitions(t), "exec", "--", "sh", "-c", "exit 4"}, &stdout, &stderr)
	if code != 4 {
		t.Fatalf("expected exit code 4, got %d", code)
	}
}

package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerWritesKeyValues(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core))

	l.Info("submission judged", "submissionId", "abc", "passed", true)
	l.Debug("debug line")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["submissionId"] != "abc" || fields["passed"] != true {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestNewZapLoggerUnknownLevel(t *testing.T) {
	if NewZapLogger("loud", false) == nil {
		t.Fatalf("expected logger")
	}
}

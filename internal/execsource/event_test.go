// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package execsource

import (
	"testing"

	"github.com/hsinghkalsi/ingestcore/internal/logevent"
	"github.com/hsinghkalsi/ingestcore/internal/telemetry"
)

type fixedHostProvider struct {
	name string
	ok   bool
}

func (f fixedHostProvider) Hostname() (string, bool) { return f.name, f.ok }

func TestEventBuilderPopulatesAllFields(t *testing.T) {
	emitter := telemetry.NewEmitter(discardLogger())
	b := newEventBuilder(logevent.DefaultSchema{}, []string{"echo", "Hello World!"}, fixedHostProvider{"Some.Machine", true}, emitter)

	ev := b.build(frame{bytes: []byte("hello world"), stream: "stdout"}, 8888, true)

	if string(ev["message"].([]byte)) != "hello world" {
		t.Fatalf("message = %v", ev["message"])
	}
	if ev["source_type"] != "exec" {
		t.Fatalf("source_type = %v, want exec", ev["source_type"])
	}
	if ev["stream"] != "stdout" {
		t.Fatalf("stream = %v, want stdout", ev["stream"])
	}
	if ev["pid"] != int64(8888) {
		t.Fatalf("pid = %v, want 8888", ev["pid"])
	}
	if ev["host"] != "Some.Machine" {
		t.Fatalf("host = %v, want Some.Machine", ev["host"])
	}
	cmd, ok := ev["command"].([]string)
	if !ok || len(cmd) != 2 || cmd[0] != "echo" || cmd[1] != "Hello World!" {
		t.Fatalf("command = %v", ev["command"])
	}
	if _, ok := ev["timestamp"]; !ok {
		t.Fatalf("timestamp missing")
	}
	if got, want := ev.Fields(), 7; got != want {
		t.Fatalf("Fields() = %d, want %d", got, want)
	}
}

func TestEventBuilderOmitsAbsentFields(t *testing.T) {
	emitter := telemetry.NewEmitter(discardLogger())
	b := newEventBuilder(logevent.DefaultSchema{}, []string{"echo"}, fixedHostProvider{}, emitter)

	ev := b.build(frame{bytes: []byte("x")}, 0, false)

	if _, ok := ev["pid"]; ok {
		t.Fatalf("pid should be absent")
	}
	if _, ok := ev["host"]; ok {
		t.Fatalf("host should be absent")
	}
	if _, ok := ev["stream"]; ok {
		t.Fatalf("stream should be absent")
	}
}

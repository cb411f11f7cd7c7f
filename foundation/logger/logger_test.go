package logger_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardanlabs/powledger/foundation/logger"
)

func Test_EvHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")

	log, err := logger.New("TEST", path)
	if err != nil {
		t.Fatalf("Should be able to construct a logger: %s", err)
	}

	var got []string
	ev := logger.EvHandler(log, "00000000-0000-0000-0000-000000000000", func(s string) { got = append(got, s) })
	ev("state: block[%d]", 7)
	log.Sync()

	if len(got) != 1 || got[0] != "state: block[7]" {
		t.Fatalf("Should hand the formatted event to the sink: %v", got)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Should be able to read the log: %s", err)
	}

	for _, want := range []string{`"service":"TEST"`, `"msg":"state: block[7]"`, `"traceid":"00000000-0000-0000-0000-000000000000"`} {
		if !strings.Contains(string(content), want) {
			t.Fatalf("Should find %s in the log: %s", want, content)
		}
	}
}

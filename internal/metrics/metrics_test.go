package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveRequestLabelsStatus(t *testing.T) {
	ok := APIRequests.WithLabelValues("POST", "templates", "201")
	failed := APIRequests.WithLabelValues("GET", "templates", CodeTransportError)
	beforeOK := testutil.ToFloat64(ok)
	beforeFailed := testutil.ToFloat64(failed)

	ObserveRequest("POST", "templates", 201, 15*time.Millisecond)
	ObserveRequest("GET", "templates", 0, time.Millisecond)

	require.Equal(t, beforeOK+1, testutil.ToFloat64(ok))
	require.Equal(t, beforeFailed+1, testutil.ToFloat64(failed))
}

func TestWriteTextfile(t *testing.T) {
	reg := NewRegistry()
	Documents.WithLabelValues(ResultUploaded).Inc()

	path := filepath.Join(t.TempDir(), "sigbox.prom")
	require.NoError(t, WriteTextfile(path, reg))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	if !strings.Contains(string(raw), "sigbox_documents_total") {
		t.Fatalf("textfile missing documents counter:\n%s", raw)
	}
}

func TestWriteTextfileDisabled(t *testing.T) {
	require.NoError(t, WriteTextfile("", NewRegistry()))
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSetTrackerStatus_OneHot(t *testing.T) {
	all := []string{"idle", "waiting", "tracking"}

	SetTrackerStatus("waiting", all...)
	SetTrackerStatus("tracking", all...)

	want := map[string]float64{"idle": 0, "waiting": 0, "tracking": 1}
	for status, v := range want {
		if got := testutil.ToFloat64(TrackerStatus.WithLabelValues(status)); got != v {
			t.Errorf("status %s = %v, want %v", status, got, v)
		}
	}
}

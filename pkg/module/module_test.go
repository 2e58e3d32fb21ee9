package module

import "testing"

func TestStatusString(t *testing.T) {
	cases := []struct {
		status Status
		want   string
	}{
		{StatusSuccess, "success"},
		{StatusWarning, "warning"},
		{StatusError, "error"},
		{Status(42), "unknown"},
	}

	for _, tc := range cases {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("Status(%d).String() = %q, want %q", tc.status, got, tc.want)
		}
	}
}

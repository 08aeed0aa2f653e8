package session

import "testing"

func TestFormatElapsed(t *testing.T) {
	cases := map[int]string{
		0:    "00:00:00",
		59:   "00:00:59",
		600:  "00:10:00",
		3725: "01:02:05",
		-4:   "00:00:00",
	}
	for in, want := range cases {
		if got := formatElapsed(in); got != want {
			t.Errorf("formatElapsed(%d) = %q, want %q", in, got, want)
		}
	}
}

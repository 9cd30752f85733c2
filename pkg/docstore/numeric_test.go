package docstore

import "testing"

func Test_RoundUp_Aligns_To_Multiple(t *testing.T) {
	t.Parallel()

	cases := []struct {
		n, m, want uint64
	}{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{17, 8, 24},
		{5, 1, 5},
	}

	for _, c := range cases {
		if got := roundUp(c.n, c.m); got != c.want {
			t.Errorf("roundUp(%d, %d) = %d, want %d", c.n, c.m, got, c.want)
		}
	}
}

package coach

import "testing"

func TestSanitizeFragment(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain list", "<ul><li>Review <strong>gravity</strong></li></ul>", "<ul><li>Review <strong>gravity</strong></li></ul>"},
		{"attributes stripped", `<ul class="x"><li onclick="evil()">Go</li></ul>`, "<ul><li>Go</li></ul>"},
		{"script removed", "<ul><li>Ok</li></ul><script>alert(1)</script>", "<ul><li>Ok</li></ul>"},
		{"unknown tags unwrapped", `<div><a href="http://x">link</a></div>`, "link"},
		{"text escaped", "5 < 6 & 7", "5 &lt; 6 &amp; 7"},
		{"comment dropped", "<!-- hi --><p>text</p>", "<p>text</p>"},
		{"line break", "a<br/>b", "a<br>b"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFragment(tt.in); got != tt.want {
				t.Fatalf("SanitizeFragment(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFallbackPlanIsStable(t *testing.T) {
	if got := SanitizeFragment(FallbackPlan); got != FallbackPlan {
		t.Fatalf("fallback plan changed by sanitizing: %q", got)
	}
}

func TestPlanItems(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"list", "<ul><li>Review <strong>gravity</strong></li><li>  Practice\n optics </li></ul>", []string{"Review gravity", "Practice optics"}},
		{"no list", "<p>Just read chapter 2.</p>", []string{"Just read chapter 2."}},
		{"entities decoded", "<ul><li>5 &lt; 6</li></ul>", []string{"5 < 6"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanItems(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("PlanItems(%q) = %q, want %q", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("PlanItems(%q) = %q, want %q", tt.in, got, tt.want)
				}
			}
		})
	}
}

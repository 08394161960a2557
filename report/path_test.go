package report

import "testing"

func TestParsePath(t *testing.T) {
	tests := []struct {
		in      string
		want    Path
		wantErr bool
	}{
		{in: "", want: Path{}},
		{in: "0", want: Path{0}},
		{in: "1.0.2", want: Path{1, 0, 2}},
		{in: "1.x", wantErr: true},
		{in: "-1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePath(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePath(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && !got.Equal(tt.want) {
				t.Errorf("ParsePath(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if err == nil && got.String() != tt.in {
				t.Errorf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestPathHelpers(t *testing.T) {
	p := Path{1, 2}
	c := p.Child(3)
	if !c.Equal(Path{1, 2, 3}) {
		t.Errorf("Child() = %v", c)
	}
	if !p.Equal(Path{1, 2}) {
		t.Errorf("Child modified receiver: %v", p)
	}
	if !c.Parent().Equal(p) {
		t.Errorf("Parent() = %v", c.Parent())
	}
	if !c.HasPrefix(p) || p.HasPrefix(c) {
		t.Errorf("HasPrefix wrong for %v, %v", c, p)
	}
}

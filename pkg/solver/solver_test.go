package solver

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/matzehuels/swmmcosim/pkg/errors"
)

func TestParseAttribute(t *testing.T) {
	tests := []struct {
		input   string
		want    Attribute
		wantErr bool
	}{
		{"flow", Flow, false},
		{"FLOW", Flow, false},
		{"link-area", LinkArea, false},
		{" link_area ", LinkArea, false},
		{"invert", Invert, false},
		{"velocity", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAttribute(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAttribute(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseAttribute(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateLive(t *testing.T) {
	for _, a := range LiveAttributes() {
		if err := ValidateLive(a); err != nil {
			t.Errorf("ValidateLive(%s) = %v, want nil", a, err)
		}
	}

	for _, a := range []Attribute{Invert, Length, FromNode, Attribute(0), Attribute(999)} {
		err := ValidateLive(a)
		if !errors.Is(err, errors.ErrCodeInvalidParameter) {
			t.Errorf("ValidateLive(%d) = %v, want INVALID_PARAMETER", int(a), err)
		}
	}
}

func TestLiveAttributes(t *testing.T) {
	live := LiveAttributes()
	if len(live) != 10 {
		t.Fatalf("len(LiveAttributes()) = %d, want 10", len(live))
	}
	if live[0] != Depth || live[len(live)-1] != LinkArea {
		t.Errorf("LiveAttributes() bounds = %v..%v, want depth..link_area", live[0], live[len(live)-1])
	}
}

func TestParseUnits(t *testing.T) {
	if u, err := ParseUnits("si"); err != nil || u != SI {
		t.Errorf("ParseUnits(si) = %v, %v", u, err)
	}
	if u, err := ParseUnits("US"); err != nil || u != US {
		t.Errorf("ParseUnits(US) = %v, %v", u, err)
	}
	if _, err := ParseUnits("metric"); !errors.Is(err, errors.ErrCodeInvalidParameter) {
		t.Errorf("ParseUnits(metric) error = %v, want INVALID_PARAMETER", err)
	}
	if Units(2).Valid() {
		t.Error("Units(2).Valid() = true, want false")
	}
}

func TestCheckValue(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		code errors.Code
	}{
		{"not found", CodeNotFound, errors.ErrCodeNotFound},
		{"type", CodeType, errors.ErrCodeTypeMismatch},
		{"attribute", CodeAttribute, errors.ErrCodeAttributeMismatch},
		{"incoherent", CodeIncoherent, errors.ErrCodeInvalidParameter},
		{"not running", CodeNotRunning, errors.ErrCodeSessionLifecycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CheckValue("C-5", Flow, tt.v)
			if !errors.Is(err, tt.code) {
				t.Errorf("CheckValue(%v) error = %v, want %s", tt.v, err, tt.code)
			}
		})
	}

	v, err := CheckValue("C-5", Flow, 1.25)
	if err != nil || v != 1.25 {
		t.Errorf("CheckValue(1.25) = %v, %v, want 1.25, nil", v, err)
	}
}

func TestLifecycle(t *testing.T) {
	if err := Lifecycle("open", 0); err != nil {
		t.Errorf("Lifecycle(open, 0) = %v, want nil", err)
	}

	err := Lifecycle("step", 317)
	if !errors.Is(err, errors.ErrCodeSessionLifecycle) {
		t.Fatalf("Lifecycle(step, 317) = %v, want SESSION_LIFECYCLE", err)
	}
	var ce *CodeError
	if !stderrors.As(err, &ce) {
		t.Fatalf("Lifecycle error does not wrap *CodeError: %v", err)
	}
	if ce.Op != "step" || ce.Code != 317 {
		t.Errorf("CodeError = %+v, want step/317", ce)
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		attr Attribute
		us   float64
		si   float64
	}{
		{Flow, 1, 0.0283168466},
		{Depth, 10, 3.048},
		{LinkArea, 1, 0.09290304},
		{Precipitation, 1, 25.4},
		{Setting, 0.5, 0.5},
		{Froude, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.attr.String(), func(t *testing.T) {
			if got := Convert(tt.attr, tt.us, US, SI); math.Abs(got-tt.si) > 1e-12 {
				t.Errorf("Convert(US->SI) = %v, want %v", got, tt.si)
			}
			if got := Convert(tt.attr, tt.si, SI, US); math.Abs(got-tt.us) > 1e-9 {
				t.Errorf("Convert(SI->US) = %v, want %v", got, tt.us)
			}
			if got := Convert(tt.attr, tt.us, US, US); got != tt.us {
				t.Errorf("Convert(US->US) = %v, want %v", got, tt.us)
			}
		})
	}
}

func TestMassBalanceString(t *testing.T) {
	mb := MassBalance{Runoff: 0.126, Flow: -1.5, Quality: 0}
	want := "runoff error: 0.13 %, flow routing error: -1.50 %, quality routing error: 0.00 %"
	if got := mb.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

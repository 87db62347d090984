package format_test

import (
	"testing"

	"github.com/felixgeelhaar/tabletop/interfaces/format"
)

func TestText_Format(t *testing.T) {
	t.Parallel()

	if got := (format.Text{}).Format("1,2,NORTH"); got != "1,2,NORTH" {
		t.Errorf("Format() = %q, want identity", got)
	}
}

func TestJSON_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		report string
		want   string
	}{
		{"report", "1,2,NORTH", `{"x":1,"y":2,"facing":"NORTH"}`},
		{"origin", "0,0,WEST", `{"x":0,"y":0,"facing":"WEST"}`},
		{"non-report passthrough", "Goodbye!", "Goodbye!"},
		{"non-numeric passthrough", "a,b,NORTH", "a,b,NORTH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := (format.JSON{}).Format(tt.report); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.report, got, tt.want)
			}
		})
	}
}

func TestByName(t *testing.T) {
	t.Parallel()

	if _, ok := format.ByName("json").(format.JSON); !ok {
		t.Error(`ByName("json") did not return the JSON formatter`)
	}
	if _, ok := format.ByName("text").(format.Text); !ok {
		t.Error(`ByName("text") did not return the text formatter`)
	}
	if _, ok := format.ByName("yaml").(format.Text); !ok {
		t.Error("ByName() with unknown name did not fall back to text")
	}
}

package argtree

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func Test_NewNodeErr(t *testing.T) {
	var b bool
	var s string
	var n int32

	tests := []struct {
		text    string
		target  Target
		opts    []Option
		wantErr error
	}{
		{"required flag", Bool(&b), []Option{ShortForms("v"), Flag(), Required()}, ErrFlagRequired},
		{"positional flag", Bool(&b), []Option{Flag()}, ErrPositionalFlag},
		{"nil target", nil, nil, ErrNilTarget},
		{"nil pointer", String(nil), nil, ErrNilTarget},
		{"empty short form", String(&s), []Option{ShortForms("")}, ErrEmptyForm},
		{"empty long form", String(&s), []Option{LongForms("x", "")}, ErrEmptyForm},
		{"empty verbatim form", String(&s), []Option{Forms("")}, ErrEmptyForm},
		{"bad default", Int32(&n), []Option{ShortForms("n"), Default("x")}, ErrBadDefault},
		{"bad default syntax", Int32(&n), []Option{ShortForms("n"), Default("x")}, ErrSyntax},
		{"default out of range", Int32(&n), []Option{ShortForms("n"), Default("9999999999")}, ErrRange},
	}

	for _, test := range tests {
		got, err := NewNode(test.target, test.opts...)
		if got != nil {
			t.Errorf("%s: got node, want nil", test.text)
		}

		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Errorf("%s: got %v, want *ConfigError", test.text, err)
			continue
		}
		if !errors.Is(err, test.wantErr) {
			t.Errorf("%s: got=%v want=%v", test.text, err, test.wantErr)
		}
	}
}

func Test_NewNodeSpec(t *testing.T) {
	var n int32
	var flag bool

	tests := []struct {
		text   string
		target Target
		opts   []Option
		want   Spec
	}{
		{"positional", Int32(&n), nil,
			Spec{Type: TypeInt32}},
		{"forms sorted short first", Int32(&n),
			[]Option{LongForms("count"), ShortForms("n", "c")},
			Spec{Type: TypeInt32, Forms: []string{"-c", "-n", "--count"}}},
		{"duplicate forms collapse", Int32(&n),
			[]Option{ShortForms("n"), Forms("-n"), ShortForms("n")},
			Spec{Type: TypeInt32, Forms: []string{"-n"}}},
		{"verbatim forms", Bool(&flag),
			[]Option{Forms("/v", "+v"), Flag()},
			Spec{Type: TypeBool, Forms: []string{"+v", "/v"}, Flag: true}},
		{"everything", Int32(&n),
			[]Option{Name("count"), Description("how many"), ShortForms("n"), Required(), Default("7")},
			Spec{Name: "count", Description: "how many", Forms: []string{"-n"},
				Required: true, Type: TypeInt32, Default: "7", HasDefault: true}},
	}

	for _, test := range tests {
		node, err := NewNode(test.target, test.opts...)
		if err != nil {
			t.Errorf("%s: unexpected error %v", test.text, err)
			continue
		}
		if diff := cmp.Diff(test.want, node.Spec()); diff != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", test.text, diff)
		}
	}
}

func Test_DisplayName(t *testing.T) {
	tests := []struct {
		spec Spec
		want string
	}{
		{Spec{Name: "file", Forms: []string{"-f"}}, "file"},
		{Spec{Forms: []string{"-f", "--file"}}, "-f|--file"},
		{Spec{Type: TypeUint16}, "<u16>"},
	}

	for _, test := range tests {
		if got := test.spec.DisplayName(); got != test.want {
			t.Errorf("got=%q want=%q", got, test.want)
		}
	}
}

func Test_NodeInlineOrder(t *testing.T) {
	var s string
	var b bool

	n := MustNode(String(&s), Forms("-f", "-foo", "--foo"))
	if diff := cmp.Diff([]string{"--foo", "-foo", "-f"}, n.inline); diff != "" {
		t.Errorf("inline forms (-want +got):\n%s", diff)
	}

	// Flags never take inline values
	f := MustNode(Bool(&b), ShortForms("v"), Flag())
	if len(f.inline) != 0 {
		t.Errorf("flag has inline forms: %v", f.inline)
	}
}

func Test_MustNodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic")
		}
	}()
	MustNode(nil)
}

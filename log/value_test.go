package log

import (
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"
)

type panicky struct{}

func (panicky) MarshalJSON() ([]byte, error) { panic("boom") }

func TestAttrs(t *testing.T) {
	tests := []struct {
		name  string
		attrs []slog.Attr
		want  string
	}{
		{"empty", nil, `{}`},
		{
			"insertion order",
			[]slog.Attr{slog.String("b", "x"), slog.Int("a", 1)},
			`{"b":"x","a":1}`,
		},
		{
			"repeated key replaces in place",
			[]slog.Attr{slog.Int("a", 1), slog.Int("b", 2), slog.Int("a", 3)},
			`{"a":3,"b":2}`,
		},
		{
			"group",
			[]slog.Attr{slog.Group("g", slog.Bool("ok", true))},
			`{"g":{"ok":true}}`,
		},
		{
			"inline group",
			[]slog.Attr{slog.Group("", slog.Int("x", 1)), slog.Int("y", 2)},
			`{"x":1,"y":2}`,
		},
		{
			"skip empty",
			[]slog.Attr{{}, slog.String("k", "v")},
			`{"k":"v"}`,
		},
		{
			"duration and float",
			[]slog.Attr{slog.Duration("d", 1500*time.Millisecond), slog.Float64("f", 0.5)},
			`{"d":"1.5s","f":0.5}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Attrs(tt.attrs...).String(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestValueOf(t *testing.T) {
	type tagged struct {
		A int    `json:"a"`
		B string `json:"b,omitempty"`
	}

	var nilPtr *tagged

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, `null`},
		{"nil pointer", nilPtr, `null`},
		{"sorted map", map[string]int{"b": 2, "a": 1}, `{"a":1,"b":2}`},
		{"int keys", map[int]bool{2: true, 1: false}, `{"1":false,"2":true}`},
		{"struct tags", tagged{A: 1}, `{"a":1}`},
		{"slice", []any{1, "x", nil}, `[1,"x",null]`},
		{"bytes", []byte("hi"), `"aGk="`},
		{"error", errors.New("oops"), `"oops"`},
		{"nan", math.NaN(), `"NaN"`},
		{"inf", math.Inf(1), `"+Inf"`},
		{"html", "<a&b>", `"<a&b>"`},
		{"level", LevelError, `"ERROR"`},
		{"panic", panicky{}, `"!PANIC(boom)"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValueOf(tt.in).String(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestValueOf_NotSerializable(t *testing.T) {
	for name, in := range map[string]any{
		"chan":    make(chan int),
		"func":    func() {},
		"complex": complex(1, 2),
	} {
		t.Run(name, func(t *testing.T) {
			v := ValueOf(in)
			if v.Kind() != KindString {
				t.Fatalf("expected string fallback, got %v", v.Kind())
			}

			if v.Str() == "" {
				t.Error("expected non-empty fallback text")
			}
		})
	}
}

func TestValueOf_Cycle(t *testing.T) {
	m := map[string]any{}
	m["self"] = m

	want := `{"self":"!CYCLE(map[string]interface {})"}`
	if got := ValueOf(m).String(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestValueOf_BranchingCycle(t *testing.T) {
	s := make([]any, 2)
	s[0] = s
	s[1] = s

	want := `["!CYCLE([]interface {})","!CYCLE([]interface {})"]`
	if got := ValueOf(s).String(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestValueOf_PointerCycle(t *testing.T) {
	type node struct {
		Name string
		Next *node
	}

	n := &node{Name: "a"}
	n.Next = n

	want := `{"Name":"a","Next":"!CYCLE(*log.node)"}`
	if got := ValueOf(n).String(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestValueOf_SharedNotCycle(t *testing.T) {
	shared := []any{1}

	want := `[[1],[1]]`
	if got := ValueOf([]any{shared, shared}).String(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestValueOf_NodeLimit(t *testing.T) {
	var v any = 1
	for range 24 {
		v = []any{v, v}
	}

	if got := ValueOf(v).String(); !strings.Contains(got, "!LIMIT(") {
		t.Errorf("expected limit marker, got %.80s...", got)
	}
}

func TestValueOf_StructFields(t *testing.T) {
	type inner struct {
		X int `json:"x"`
	}

	type outer struct {
		inner   `json:"-"`
		Inner   inner
		C       chan int
		N       int
		Skip    string `json:"-"`
		Renamed bool   `json:"ok"`
		Empty   []int  `json:"empty,omitempty"`
		secret  string
	}

	v := ValueOf(outer{C: make(chan int), N: 7, Renamed: true, secret: "s"})
	if v.Kind() != KindObject {
		t.Fatalf("expected object, got %v", v.Kind())
	}

	obj := v.Object()

	keys := make([]string, 0, len(obj))
	for _, m := range obj {
		keys = append(keys, m.Key)
	}

	if got, want := strings.Join(keys, ","), "Inner,C,N,ok"; got != want {
		t.Errorf("expected keys %s, got %s", want, got)
	}

	if c, _ := obj.Get("C"); c.Kind() != KindString || !strings.HasPrefix(c.Str(), "0x") {
		t.Errorf("expected channel as text, got %v", c)
	}

	if n, _ := obj.Get("N"); n.String() != "7" {
		t.Errorf("expected N=7, got %v", n)
	}

	if in, _ := obj.Get("Inner"); in.String() != `{"x":0}` {
		t.Errorf("expected nested struct, got %v", in)
	}
}

func TestValueOf_EmbeddedStruct(t *testing.T) {
	type Base struct {
		ID int `json:"id"`
	}

	type event struct {
		Base
		When time.Time `json:"when"`
	}

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	want := `{"id":1,"when":"2025-01-02T03:04:05Z"}`

	if got := ValueOf(event{Base: Base{ID: 1}, When: at}).String(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestObject_Indent(t *testing.T) {
	got := Attrs(slog.Int("free_mb", 120)).Indent()
	want := "{\n  \"free_mb\": 120\n}"

	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestObject_GetSet(t *testing.T) {
	var o Object

	o = o.Set("a", IntValue(1))
	o = o.Set("b", BoolValue(true))
	o = o.Set("a", StringValue("x"))

	if len(o) != 2 || o[0].Key != "a" {
		t.Fatalf("unexpected members %v", o)
	}

	v, ok := o.Get("a")
	if !ok || v.Str() != "x" {
		t.Errorf("expected a=x, got %v (present=%v)", v, ok)
	}

	if _, ok := o.Get("z"); ok {
		t.Error("expected z to be absent")
	}

	m := o.Map()
	if m["b"] != true {
		t.Errorf("expected b=true in map, got %v", m["b"])
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"order", `{"z":1,"a":[true,null,"s"]}`, `{"z":1,"a":[true,null,"s"]}`},
		{"number literal", `{"n":1.50}`, `{"n":1.50}`},
		{"scalar", ` "text" `, `"text"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := DecodeJSON([]byte(tt.in))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := v.String(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	for _, in := range []string{``, `{`, `{} x`, `{}{}`} {
		if _, err := DecodeJSON([]byte(in)); err == nil {
			t.Errorf("expected error decoding %q", in)
		}
	}
}

func TestValue_Any(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"i":3,"f":2.5,"s":"x","l":[1]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m, ok := v.Any().(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", v.Any())
	}

	if m["i"] != int64(3) {
		t.Errorf("expected int64 3, got %#v", m["i"])
	}

	if m["f"] != 2.5 {
		t.Errorf("expected 2.5, got %#v", m["f"])
	}

	if l, ok := m["l"].([]any); !ok || len(l) != 1 {
		t.Errorf("expected one-element list, got %#v", m["l"])
	}
}

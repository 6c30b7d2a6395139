package log

import (
	"bytes"
	"cmp"
	"encoding"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Kind is the JSON type of a [Value].
type Kind uint8

const (
	KindNull   Kind = iota // null
	KindBool               // bool
	KindNumber             // number
	KindString             // string
	KindObject             // object
	KindArray              // array
)

// String returns the JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a JSON value: null, bool, number, string, ordered object or
// array. The zero Value is null.
//
// Values are built from arbitrary Go values with [ValueOf]; whatever cannot
// be represented in JSON is replaced by its "%v" string.
type Value struct {
	kind Kind
	b    bool
	s    string // string value, or number text
	obj  Object
	arr  []Value
}

// Member is a key and value in an [Object].
type Member struct {
	Key   string
	Value Value
}

// Object is an ordered JSON object. Keys are unique.
type Object []Member

// maxDepth bounds the nesting of converted values. Deeper values are
// replaced by a "!DEPTH(<type>)" string.
const maxDepth = 32

// Null returns the null Value.
func Null() Value { return Value{} }

// BoolValue returns a bool Value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// IntValue returns a number Value.
func IntValue(i int64) Value {
	return Value{kind: KindNumber, s: strconv.FormatInt(i, 10)}
}

// UintValue returns a number Value.
func UintValue(u uint64) Value {
	return Value{kind: KindNumber, s: strconv.FormatUint(u, 10)}
}

// FloatValue returns a number Value. NaN and infinities have no JSON
// representation and become strings.
func FloatValue(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return StringValue(strconv.FormatFloat(f, 'g', -1, 64))
	}

	return Value{kind: KindNumber, s: strconv.FormatFloat(f, 'g', -1, 64)}
}

// ObjectValue returns an object Value.
func ObjectValue(obj Object) Value { return Value{kind: KindObject, obj: obj} }

// ArrayValue returns an array Value.
func ArrayValue(vs ...Value) Value { return Value{kind: KindArray, arr: vs} }

// Kind returns the JSON type of v.
func (v Value) Kind() Kind { return v.kind }

// Bool returns the bool held by v, or false.
func (v Value) Bool() bool { return v.b }

// Str returns the string held by v, or the text of a number.
func (v Value) Str() string { return v.s }

// Object returns the members held by v, or nil.
func (v Value) Object() Object { return v.obj }

// Array returns the elements held by v, or nil.
func (v Value) Array() []Value { return v.arr }

// Any returns v as a native Go value: nil, bool, int64, float64, string,
// map[string]any or []any.
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		if i, err := strconv.ParseInt(v.s, 10, 64); err == nil {
			return i
		}

		f, _ := strconv.ParseFloat(v.s, 64)

		return f
	case KindString:
		return v.s
	case KindObject:
		return v.obj.Map()
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Any()
		}

		return out
	default:
		return nil
	}
}

// Map returns o as a native map; see [Value.Any].
func (o Object) Map() map[string]any {
	m := make(map[string]any, len(o))
	for _, mem := range o {
		m[mem.Key] = mem.Value.Any()
	}

	return m
}

// Get returns the value of key and whether it is present.
func (o Object) Get(key string) (Value, bool) {
	i := slices.IndexFunc(o, func(m Member) bool { return m.Key == key })
	if i < 0 {
		return Value{}, false
	}

	return o[i].Value, true
}

// Set sets key to v. An existing key keeps its position.
func (o Object) Set(key string, v Value) Object {
	i := slices.IndexFunc(o, func(m Member) bool { return m.Key == key })
	if i >= 0 {
		o[i].Value = v

		return o
	}

	return append(o, Member{Key: key, Value: v})
}

// MarshalJSON implements [json.Marshaler]. Member order is preserved and
// HTML characters are not escaped.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	v.appendJSON(&buf)

	return buf.Bytes(), nil
}

// MarshalJSON implements [json.Marshaler]; see [Value.MarshalJSON].
func (o Object) MarshalJSON() ([]byte, error) {
	return ObjectValue(o).MarshalJSON()
}

// Indent returns o as JSON indented by two spaces per level.
func (o Object) Indent() string {
	var compact, out bytes.Buffer

	ObjectValue(o).appendJSON(&compact)

	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return compact.String()
	}

	return out.String()
}

// String returns v as compact JSON.
func (v Value) String() string {
	var buf bytes.Buffer

	v.appendJSON(&buf)

	return buf.String()
}

// String returns o as compact JSON.
func (o Object) String() string {
	var buf bytes.Buffer

	ObjectValue(o).appendJSON(&buf)

	return buf.String()
}

func (v Value) appendJSON(buf *bytes.Buffer) {
	switch v.kind {
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))

	case KindNumber:
		buf.WriteString(v.s)

	case KindString:
		appendString(buf, v.s)

	case KindObject:
		buf.WriteByte('{')

		for i, m := range v.obj {
			if i > 0 {
				buf.WriteByte(',')
			}

			appendString(buf, m.Key)
			buf.WriteByte(':')
			m.Value.appendJSON(buf)
		}

		buf.WriteByte('}')

	case KindArray:
		buf.WriteByte('[')

		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}

			e.appendJSON(buf)
		}

		buf.WriteByte(']')

	default:
		buf.WriteString("null")
	}
}

// appendString writes s as a JSON string without HTML escaping.
func appendString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	// Encoding a string cannot fail.
	_ = enc.Encode(s)

	// Encode terminates each value with a newline.
	buf.Truncate(buf.Len() - 1)
}

// Attrs converts slog attributes to an ordered object.
//
// Attribute values are resolved, groups become nested objects, and groups
// with an empty key are merged into the enclosing object. Empty attributes
// are skipped. A repeated key replaces the earlier value in place.
func Attrs(attrs ...slog.Attr) Object {
	return newWalker().appendAttrs(nil, attrs, 0)
}

// ValueOf converts an arbitrary Go value.
//
// Booleans, numbers, strings, maps, slices, arrays, pointers and structs map
// onto their JSON counterparts the way [encoding/json] would encode them,
// except that map keys are sorted and NaN or infinite floats become strings.
// Struct fields honor their "json" tag name, "-" and omitempty. Errors
// become their message and [encoding.TextMarshaler]s their text. Anything
// else, and any value whose marshaler fails or panics, becomes its "%v"
// string; the rest of the enclosing value keeps its structure.
//
// A value that refers back to itself becomes "!CYCLE(<type>)" where the
// reference repeats.
func ValueOf(x any) Value { return newWalker().value(x, 0) }

// maxNodes bounds the number of values converted by one call to [ValueOf]
// or [Attrs]. Values past the budget are replaced by "!LIMIT(<type>)".
const maxNodes = 1 << 14

// visit identifies a slice, map or pointer on the current path.
type visit struct {
	ptr uintptr
	len int
	typ reflect.Type
}

// walker holds the state of one conversion.
type walker struct {
	path  map[visit]struct{}
	nodes int
}

func newWalker() *walker {
	return &walker{path: make(map[visit]struct{})}
}

func (w *walker) appendAttrs(o Object, attrs []slog.Attr, depth int) Object {
	for _, a := range attrs {
		a.Value = a.Value.Resolve()

		if a.Equal(slog.Attr{}) {
			continue
		}

		if a.Value.Kind() == slog.KindGroup && a.Key == "" {
			o = w.appendAttrs(o, a.Value.Group(), depth)

			continue
		}

		o = o.Set(a.Key, w.fromSlog(a.Value, depth+1))
	}

	return o
}

// fromSlog converts a resolved slog value.
func (w *walker) fromSlog(v slog.Value, depth int) Value {
	switch v.Kind() {
	case slog.KindBool:
		return BoolValue(v.Bool())
	case slog.KindInt64:
		return IntValue(v.Int64())
	case slog.KindUint64:
		return UintValue(v.Uint64())
	case slog.KindFloat64:
		return FloatValue(v.Float64())
	case slog.KindString:
		return StringValue(v.String())
	case slog.KindDuration:
		return StringValue(v.Duration().String())
	case slog.KindTime:
		return StringValue(v.Time().Format(time.RFC3339Nano))
	case slog.KindGroup:
		if depth > maxDepth {
			return StringValue("!DEPTH(group)")
		}

		return ObjectValue(w.appendAttrs(Object{}, v.Group(), depth))
	case slog.KindLogValuer:
		return w.fromSlog(v.Resolve(), depth)
	default:
		return w.value(v.Any(), depth)
	}
}

func (w *walker) value(x any, depth int) (v Value) {
	defer func() {
		if r := recover(); r != nil {
			v = StringValue(fmt.Sprintf("!PANIC(%v)", r))
		}
	}()

	if depth > maxDepth {
		return StringValue(fmt.Sprintf("!DEPTH(%T)", x))
	}

	if w.nodes++; w.nodes > maxNodes {
		return StringValue(fmt.Sprintf("!LIMIT(%T)", x))
	}

	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case Object:
		return ObjectValue(t)
	case slog.Value:
		return w.fromSlog(t.Resolve(), depth)
	case slog.LogValuer:
		return w.fromSlog(slog.AnyValue(t).Resolve(), depth)
	case []slog.Attr:
		return ObjectValue(w.appendAttrs(Object{}, t, depth))
	case json.RawMessage:
		return decodeOr(t, x)
	case json.Marshaler:
		if isNilPointer(t) {
			return Null()
		}

		b, err := t.MarshalJSON()
		if err != nil {
			return fallback(x)
		}

		return decodeOr(b, x)
	case error:
		if isNilPointer(t) {
			return Null()
		}

		return StringValue(t.Error())
	case encoding.TextMarshaler:
		if isNilPointer(t) {
			return Null()
		}

		b, err := t.MarshalText()
		if err != nil {
			return fallback(x)
		}

		return StringValue(string(b))
	}

	return w.reflectValue(reflect.ValueOf(x), depth)
}

// enter records rv on the current path. It reports false if rv is already
// on it; otherwise the caller must call the returned leave func.
func (w *walker) enter(rv reflect.Value) (leave func(), ok bool) {
	key := visit{ptr: rv.Pointer(), typ: rv.Type()}
	if rv.Kind() == reflect.Slice {
		key.len = rv.Len()
	}

	if _, seen := w.path[key]; seen {
		return nil, false
	}

	w.path[key] = struct{}{}

	return func() { delete(w.path, key) }, true
}

func (w *walker) reflectValue(rv reflect.Value, depth int) Value {
	switch rv.Kind() {
	case reflect.Bool:
		return BoolValue(rv.Bool())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntValue(rv.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return UintValue(rv.Uint())

	case reflect.Float32, reflect.Float64:
		return FloatValue(rv.Float())

	case reflect.String:
		return StringValue(rv.String())

	case reflect.Interface:
		if rv.IsNil() {
			return Null()
		}

		return w.value(rv.Elem().Interface(), depth+1)

	case reflect.Pointer:
		if rv.IsNil() {
			return Null()
		}

		leave, ok := w.enter(rv)
		if !ok {
			return cycle(rv)
		}
		defer leave()

		return w.value(rv.Elem().Interface(), depth+1)

	case reflect.Slice:
		if rv.IsNil() {
			return Null()
		}

		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return StringValue(base64.StdEncoding.EncodeToString(rv.Bytes()))
		}

		leave, ok := w.enter(rv)
		if !ok {
			return cycle(rv)
		}
		defer leave()

		return w.array(rv, depth)

	case reflect.Array:
		return w.array(rv, depth)

	case reflect.Map:
		if rv.IsNil() {
			return Null()
		}

		leave, ok := w.enter(rv)
		if !ok {
			return cycle(rv)
		}
		defer leave()

		return w.mapValue(rv, depth)

	case reflect.Struct:
		return ObjectValue(w.appendFields(Object{}, rv, depth))

	default:
		// reflect.Chan, reflect.Func, reflect.Complex64, reflect.Complex128,
		// reflect.UnsafePointer
		return fallback(rv.Interface())
	}
}

func (w *walker) array(rv reflect.Value, depth int) Value {
	arr := make([]Value, rv.Len())
	for i := range arr {
		arr[i] = w.value(rv.Index(i).Interface(), depth+1)
	}

	return ArrayValue(arr...)
}

func (w *walker) mapValue(rv reflect.Value, depth int) Value {
	obj := make(Object, 0, rv.Len())

	iter := rv.MapRange()
	for iter.Next() {
		obj = obj.Set(mapKey(iter.Key()), w.value(iter.Value().Interface(), depth+1))
	}

	slices.SortFunc(obj, func(a, b Member) int { return cmp.Compare(a.Key, b.Key) })

	return ObjectValue(obj)
}

// appendFields appends the exported fields of struct rv to obj. Fields of
// exported embedded structs without a tag name are promoted.
func (w *walker) appendFields(obj Object, rv reflect.Value, depth int) Object {
	t := rv.Type()

	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		name, opts, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" && opts == "" {
			continue
		}

		fv := rv.Field(i)

		if sf.Anonymous && name == "" && indirectType(sf.Type).Kind() == reflect.Struct {
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					continue
				}

				fv = fv.Elem()
			}

			if !implementsMarshaler(fv.Type()) {
				obj = w.appendFields(obj, fv, depth)

				continue
			}
		}

		if name == "" {
			name = sf.Name
		}

		if hasOption(opts, "omitempty") && isEmptyValue(fv) {
			continue
		}

		obj = obj.Set(name, w.value(fv.Interface(), depth+1))
	}

	return obj
}

func indirectType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}

	return t
}

var (
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

func implementsMarshaler(t reflect.Type) bool {
	return t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType)
}

func hasOption(opts, want string) bool {
	for opt := range strings.SplitSeq(opts, ",") {
		if opt == want {
			return true
		}
	}

	return false
}

// isEmptyValue reports whether omitempty drops v, as in encoding/json.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Interface, reflect.Pointer:
		return v.IsZero()
	}

	return false
}

func cycle(rv reflect.Value) Value {
	return StringValue(fmt.Sprintf("!CYCLE(%s)", rv.Type()))
}

func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}

	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		if b, err := tm.MarshalText(); err == nil {
			return string(b)
		}
	}

	return fmt.Sprint(k.Interface())
}

func isNilPointer(x any) bool {
	rv := reflect.ValueOf(x)

	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// fallback returns the "%v" string form of x.
func fallback(x any) Value { return StringValue(fmt.Sprintf("%v", x)) }

// decodeOr decodes data, or falls back to the string form of x.
func decodeOr(data []byte, x any) Value {
	v, err := DecodeJSON(data)
	if err != nil {
		return fallback(x)
	}

	return v
}

// DecodeJSON parses a single JSON value, preserving object member order.
// Numbers keep their literal text.
func DecodeJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		return Value{}, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return Value{}, errTrailingData
	}

	return v, nil
}

var errTrailingData = errors.New("unexpected data after JSON value")

func decodeValue(dec *json.Decoder, depth int) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return BoolValue(t), nil
	case json.Number:
		return Value{kind: KindNumber, s: t.String()}, nil
	case string:
		return StringValue(t), nil
	case json.Delim:
		if depth > maxDepth {
			return Value{}, fmt.Errorf("JSON nesting exceeds %d", maxDepth)
		}

		switch t {
		case '{':
			obj := Object{}

			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}

				key, _ := keyTok.(string)

				val, err := decodeValue(dec, depth+1)
				if err != nil {
					return Value{}, err
				}

				obj = obj.Set(key, val)
			}

			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}

			return ObjectValue(obj), nil

		case '[':
			arr := []Value{}

			for dec.More() {
				val, err := decodeValue(dec, depth+1)
				if err != nil {
					return Value{}, err
				}

				arr = append(arr, val)
			}

			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}

			return ArrayValue(arr...), nil
		}
	}

	return Value{}, fmt.Errorf("unexpected JSON token %v", tok)
}

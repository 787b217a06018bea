package toon

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEncode(t *testing.T, v *Value, opts EncodeOptions) string {
	t.Helper()
	out, err := EncodeWithOptions(v, opts)
	require.NoError(t, err)
	return out
}

func TestEncodeEmptyArray(t *testing.T) {
	v := Object(Field("items", Array()))
	out, err := Encode(v)
	require.NoError(t, err)
	assert.Contains(t, out, "items[0]:")
	assert.Equal(t, "items[0]:", out)
}

func TestEncodeQuotesDelimiter(t *testing.T) {
	v := Object(Field("note", Str("hello, world")))
	out, err := Encode(v)
	require.NoError(t, err)
	assert.Contains(t, out, `"hello, world"`)
	assert.Equal(t, `note: "hello, world"`, out)
}

func TestEncodeForms(t *testing.T) {
	tests := []struct {
		name  string
		value *Value
		want  string
	}{
		{
			name:  "flat object",
			value: Object(Field("name", Str("Alice")), Field("age", Int(30))),
			want:  "name: Alice\nage: 30",
		},
		{
			name:  "inline array",
			value: Object(Field("tags", Array(Str("reading"), Str("gaming"), Str("coding")))),
			want:  "tags[3]: reading,gaming,coding",
		},
		{
			name: "tabular array",
			value: Object(Field("items", Array(
				Object(Field("sku", Str("A1")), Field("qty", Int(2)), Field("price", Float(9.99))),
				Object(Field("sku", Str("B2")), Field("qty", Int(1)), Field("price", Float(14.5))),
			))),
			want: "items[2]{sku,qty,price}:\n  A1,2,9.99\n  B2,1,14.5",
		},
		{
			name: "tabular uses first key order",
			value: Array(
				Object(Field("a", Int(1)), Field("b", Int(2))),
				Object(Field("b", Int(4)), Field("a", Int(3))),
			),
			want: "[2]{a,b}:\n  1,2\n  3,4",
		},
		{
			name:  "list array",
			value: Object(Field("items", Array(Int(1), Object(Field("a", Int(1))), Str("x")))),
			want:  "items[3]:\n  - 1\n  - a: 1\n  - x",
		},
		{
			name:  "nested object",
			value: Object(Field("user", Object(Field("id", Int(1)), Field("name", Str("Alice"))))),
			want:  "user:\n  id: 1\n  name: Alice",
		},
		{
			name:  "null entry",
			value: Object(Field("empty", Null()), Field("next", Bool(true))),
			want:  "empty:\nnext: true",
		},
		{
			name:  "reserved words quoted",
			value: Object(Field("vals", Array(Str("true"), Bool(true)))),
			want:  `vals[2]: "true",true`,
		},
		{
			name:  "nested arrays",
			value: Object(Field("m", Array(Array(Int(1), Int(2)), Array(Int(3))))),
			want:  "m[2]:\n  - [2]: 1,2\n  - [1]: 3",
		},
		{
			name: "list object with composite",
			value: Object(Field("rows", Array(
				Object(Field("id", Int(1)), Field("tags", Array(Str("a"), Str("b")))),
				Int(5),
			))),
			want: "rows[2]:\n  - id: 1\n    tags[2]: a,b\n  - 5",
		},
		{
			name:  "list object pairs",
			value: Object(Field("xs", Array(Object(Field("a", Int(1)), Field("b", Null())), Int(2)))),
			want:  "xs[2]:\n  - a: 1 b:\n  - 2",
		},
		{
			name:  "single null array uses list",
			value: Object(Field("a", Array(Null()))),
			want:  "a[1]:\n  -",
		},
		{
			name:  "nulls force list form",
			value: Object(Field("a", Array(Null(), Int(1), Null()))),
			want:  "a[3]:\n  -\n  - 1\n  -",
		},
		{
			name:  "root array",
			value: Array(Int(1), Int(2)),
			want:  "[2]: 1,2",
		},
		{
			name:  "root primitive",
			value: Str("hello"),
			want:  "hello",
		},
		{
			name:  "root null",
			value: Null(),
			want:  "",
		},
		{
			name:  "empty nested object",
			value: Object(Field("a", Object())),
			want:  "a:",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustEncode(t, tt.value, DefaultEncodeOptions()))
		})
	}
}

func TestEncodeOptions(t *testing.T) {
	table := Object(Field("items", Array(
		Object(Field("sku", Str("A1")), Field("qty", Int(2))),
		Object(Field("sku", Str("B2")), Field("qty", Int(1))),
	)))

	t.Run("pipe", func(t *testing.T) {
		out := mustEncode(t, table, EncodeOptions{Delimiter: Pipe})
		assert.Equal(t, "items[2]{sku|qty}:\n  A1|2\n  B2|1", out)
	})
	t.Run("tab", func(t *testing.T) {
		out := mustEncode(t, table, EncodeOptions{Delimiter: Tab})
		assert.Equal(t, "items[2]{sku\tqty}:\n  A1\t2\n  B2\t1", out)
	})
	t.Run("length marker", func(t *testing.T) {
		v := Object(Field("tags", Array(Str("a"), Str("b"))), Field("none", Array()))
		out := mustEncode(t, v, EncodeOptions{LengthMarker: '#'})
		assert.Equal(t, "tags[#2]: a,b\nnone[0]:", out)
	})
	t.Run("indent", func(t *testing.T) {
		out := mustEncode(t, table, EncodeOptions{Indent: 4})
		assert.Equal(t, "items[2]{sku,qty}:\n    A1,2\n    B2,1", out)
	})
	t.Run("pipe quotes comma", func(t *testing.T) {
		v := Object(Field("a", Array(Str("x,y"), Str("z"))))
		assert.Equal(t, `a[2]: "x,y"|z`, mustEncode(t, v, EncodeOptions{Delimiter: Pipe}))
	})
}

func TestEncodeInvalidOptions(t *testing.T) {
	v := Object(Field("a", Int(1)))
	for _, opts := range []EncodeOptions{
		{Delimiter: ';'},
		{Indent: -1},
		{LengthMarker: '7'},
		{LengthMarker: ']'},
		{LengthMarker: ' '},
	} {
		_, err := EncodeWithOptions(v, opts)
		assert.ErrorIs(t, err, ErrInvalidOptions, "%+v", opts)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{2, "2"},
		{-17, "-17"},
		{1.5, "1.5"},
		{9.99, "9.99"},
		{0.1, "0.1"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{0.000001, "0.000001"},
		{1e-7, "1e-7"},
		{-2.5e-8, "-2.5e-8"},
		{1.7976931348623157e308, "1.7976931348623157e+308"},
	}
	for _, tt := range tests {
		got, err := formatFloat(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "formatFloat(%v)", tt.in)
	}
}

func TestEncodeRejectsNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Encode(Object(Field("x", Float(f))))
		assert.ErrorIs(t, err, ErrSerialization)
	}
}

func TestRenderString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello", "hello"},
		{"", `""`},
		{"hello world", `"hello world"`},
		{"a,b", `"a,b"`},
		{"a|b", `"a|b"`},
		{"a:b", `"a:b"`},
		{"true", `"true"`},
		{"false", `"false"`},
		{"null", `"null"`},
		{"42", `"42"`},
		{"-3.5e2", `"-3.5e2"`},
		{".5", `".5"`},
		{"1.2.3", "1.2.3"},
		{"NaN", "NaN"},
		{"Infinity", "Infinity"},
		{"[x", `"[x"`},
		{"x[1]", "x[1]"},
		{"-", "-"},
		{"line\nbreak", `"line\nbreak"`},
		{"tab\there", `"tab\there"`},
		{`say "hi"`, `"say \"hi\""`},
		{`C:\dir`, `"C:\\dir"`},
		{"héllo", "héllo"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, renderString(tt.in, Comma), "renderString(%q)", tt.in)
	}
}

func TestIsNumericLiteral(t *testing.T) {
	for _, s := range []string{"0", "-1", "+1", "1.5", ".5", "5.", "1e5", "1E-5", "-2.5e+3", "007"} {
		assert.True(t, isNumericLiteral(s), s)
	}
	for _, s := range []string{"", "-", ".", "e5", "1e", "1e+", "1.2.3", "0x10", "NaN", "Inf", "1_000", " 1"} {
		assert.False(t, isNumericLiteral(s), s)
	}
}

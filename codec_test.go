package textdex

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/kailas-cloud/textdex/internal/domain/record"
)

func testCodec() *codec {
	return &codec{serializer: JSONSerializer{}}
}

func mustMeta[T any](t *testing.T) *schemaMeta {
	t.Helper()
	meta, err := parseSchema(reflect.TypeFor[T]())
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	return meta
}

// stored mimics the backend: only stored fields come back, numbers as float64.
func stored(r *Record) *Record {
	fields := map[string]any{record.TypeField: r.Type}
	for _, f := range r.Fields() {
		if !f.Store {
			continue
		}
		if n, ok := record.Float(f.Value); ok {
			fields[f.Name] = n
			continue
		}
		fields[f.Name] = f.Value.String()
	}
	return record.FromStored(fields)
}

func decodeAs[T any](t *testing.T, c *codec, r *Record) (T, error) {
	t.Helper()
	meta := mustMeta[T](t)
	p := reflect.New(meta.typ)
	err := c.decode(meta, r, p)
	return p.Elem().Interface().(T), err
}

func sampleProfile() profile {
	age := 41
	calm := moodCalm
	return profile{
		Key:      "k-1",
		Title:    "Title text",
		Body:     "<p>Hello &amp; <b>world</b></p>",
		Secret:   "hidden",
		Age:      30,
		Visits:   1 << 40,
		Small:    -7,
		Count:    4000000000,
		Ratio:    0.1,
		Balance:  1234.5678,
		Joined:   time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
		Mood:     moodAngry,
		MaybeAge: &age,
		Mood2:    &calm,
		Home:     &address{City: "Lisbon", Zip: "1000"},
		Tags:     []string{"a", "b"},
		Meta:     map[string]string{"k": "v"},
		Active:   true,
	}
}

func TestEncode_Representation(t *testing.T) {
	c := testCodec()
	r, err := c.encode(mustMeta[profile](t), sampleProfile())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if r.Type != "github.com/kailas-cloud/textdex.profile" {
		t.Errorf("Type = %q", r.Type)
	}

	want := map[string]record.Value{
		"Key":     record.Keyword("k-1"),
		"Title":   record.Text("Title text"),
		"Body":    record.Text("Hello  world"),
		"Secret":  record.Keyword("hidden"),
		"Age":     record.Int32(30),
		"Visits":  record.Int64(1 << 40),
		"Small":   record.Float32(-7),
		"Count":   record.Int64(4000000000),
		"Ratio":   record.Float32(0.1),
		"Balance": record.Float64(1234.5678),
		"Joined":  record.Date(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)),
		"Mood":    record.Keyword("Angry"),
		"Mood2":   record.Keyword("Calm"),
		"Home":    record.Keyword(`{"city":"Lisbon","zip":"1000"}`),
		"Tags":    record.Keyword(`["a","b"]`),
		"Meta":    record.Keyword(`{"k":"v"}`),
		"Active":  record.Keyword("true"),
	}
	for name, w := range want {
		got, ok := r.Lookup(name)
		if !ok {
			t.Errorf("field %s missing", name)
			continue
		}
		if reflect.TypeOf(got) != reflect.TypeOf(w) || got.String() != w.String() {
			t.Errorf("field %s = %T(%s), want %T(%s)", name, got, got, w, w)
		}
	}
	if got, _ := r.Lookup("MaybeAge"); got != record.Value(record.Int64(41)) {
		t.Errorf("MaybeAge = %#v, want Int64(41)", got)
	}

	for _, f := range r.Fields() {
		if f.Name == "Secret" && f.Store {
			t.Error("Secret should not be stored")
		}
	}
}

func TestEncode_SkipsNil(t *testing.T) {
	c := testCodec()
	p := sampleProfile()
	p.MaybeAge, p.Mood2, p.Home, p.Tags, p.Meta = nil, nil, nil, nil, nil

	r, err := c.encode(mustMeta[profile](t), &p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for _, name := range []string{"MaybeAge", "Mood2", "Home", "Tags", "Meta"} {
		if _, ok := r.Lookup(name); ok {
			t.Errorf("nil field %s should be skipped", name)
		}
	}
	if _, ok := r.Lookup("Ignored"); ok {
		t.Error("untagged field should not be encoded")
	}
}

func TestEncode_DateInUTC(t *testing.T) {
	type event struct {
		At time.Time `textdex:"At"`
	}
	c := testCodec()
	at := time.Date(2024, 1, 1, 3, 0, 0, 0, time.FixedZone("plus3", 3*3600))
	r, err := c.encode(mustMeta[event](t), event{At: at})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got, _ := r.Get("At"); got != "2024-01-01 00:00:00" {
		t.Errorf("At = %q, want 2024-01-01 00:00:00", got)
	}
}

func TestRoundTrip_Profile(t *testing.T) {
	c := testCodec()
	in := sampleProfile()
	r, err := c.encode(mustMeta[profile](t), in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := decodeAs[profile](t, c, stored(r))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := in
	want.Body = "Hello  world"
	want.Secret = ""
	if !reflect.DeepEqual(out, want) {
		t.Errorf("round trip:\n got %+v\nwant %+v", out, want)
	}
}

func TestRoundTrip_IdentityIsExact(t *testing.T) {
	type keyed struct {
		N   int64   `textdex:"N,id"`
		F   float64 `textdex:"F,id"`
		S   string  `textdex:"S,id"`
		Raw string  `textdex:"Raw,id,html"`
	}
	c := testCodec()
	in := keyed{N: 9007199254740993, F: 0.30000000000000004, S: " Mixed Case ", Raw: "<b>kept</b>"}
	r, err := c.encode(mustMeta[keyed](t), in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got, _ := r.Get("N"); got != "9007199254740993" {
		t.Errorf("N = %q", got)
	}
	if got, _ := r.Get("Raw"); got != "<b>kept</b>" {
		t.Errorf("Raw = %q, identity values must be verbatim", got)
	}

	out, err := decodeAs[keyed](t, c, stored(r))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestRoundTrip_Enum(t *testing.T) {
	c := testCodec()
	for _, m := range []mood{moodCalm, moodAngry} {
		p := profile{Mood: m, Mood2: &m}
		r, err := c.encode(mustMeta[profile](t), p)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		out, err := decodeAs[profile](t, c, stored(r))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if out.Mood != m || out.Mood2 == nil || *out.Mood2 != m {
			t.Errorf("mood %v round trip = %v / %v", m, out.Mood, out.Mood2)
		}
	}
}

func TestRoundTrip_PointerReceiverEnum(t *testing.T) {
	c := testCodec()
	for _, in := range []any{voyage{Port: "Hull", Tide: tideHigh}, &voyage{Port: "Hull", Tide: tideHigh}} {
		r, err := c.encode(mustMeta[voyage](t), in)
		if err != nil {
			t.Fatalf("encode %T: %v", in, err)
		}
		if got, _ := r.Get("Tide"); got != "High" {
			t.Errorf("encode %T: Tide = %q, want High", in, got)
		}
		out, err := decodeAs[voyage](t, c, stored(r))
		if err != nil {
			t.Fatalf("decode %T: %v", in, err)
		}
		if out.Tide != tideHigh {
			t.Errorf("decode %T: Tide = %v, want %v", in, out.Tide, tideHigh)
		}
	}
}

func TestRoundTrip_TypeIdentity(t *testing.T) {
	c := testCodec()
	r, err := c.encode(mustMeta[person](t), person{ID: 1})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := stored(r).Type; got != "github.com/kailas-cloud/textdex.person" {
		t.Errorf("Type = %q", got)
	}
}

func TestDecode_MissingFieldsAreZero(t *testing.T) {
	c := testCodec()
	r := record.New("x")
	r.Add("Name", record.Keyword("Zhang"), true)

	out, err := decodeAs[person](t, c, r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != (person{Name: "Zhang"}) {
		t.Errorf("decode = %+v", out)
	}
}

func TestDecode_IntegralFloatText(t *testing.T) {
	c := testCodec()
	r := record.New("x")
	r.Add("Id", record.Keyword("3e+06"), true)

	out, err := decodeAs[person](t, c, r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID != 3000000 {
		t.Errorf("ID = %d, want 3000000", out.ID)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		want  error
	}{
		{"non numeric int", "Age", "abc", ErrFormat},
		{"fractional int", "Age", "2.5", ErrFormat},
		{"overflow", "Small", "70000", ErrFormat},
		{"unknown enum", "Mood", "Sleepy", ErrFormat},
		{"bad date", "Joined", "yesterday", ErrFormat},
		{"bad bool", "Active", "maybe", ErrFormat},
		{"bad json", "Home", "{bad", ErrDeserialization},
	}
	c := testCodec()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := record.New("x")
			r.Add(tt.field, record.Keyword(tt.value), true)
			_, err := decodeAs[profile](t, c, r)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("err = %T, want *FieldError", err)
			}
			if fe.Field != tt.field || fe.Value != tt.value {
				t.Errorf("FieldError = %+v", fe)
			}
		})
	}
}

func TestEncode_SerializationErrors(t *testing.T) {
	type withChan struct {
		Ch chan int `textdex:"Ch"`
	}
	c := testCodec()
	_, err := c.encode(mustMeta[withChan](t), withChan{Ch: make(chan int)})
	if !errors.Is(err, ErrSerialization) {
		t.Errorf("chan: err = %v, want ErrSerialization", err)
	}

	_, err = c.encode(mustMeta[profile](t), profile{Mood: mood(99)})
	if !errors.Is(err, ErrSerialization) {
		t.Errorf("enum: err = %v, want ErrSerialization", err)
	}
}

func TestEncode_NilItem(t *testing.T) {
	c := testCodec()
	var p *person
	if _, err := c.encode(mustMeta[person](t), p); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestCodec_RecordMarshaler(t *testing.T) {
	c := testCodec()
	meta := mustMeta[upperRecord](t)
	if !meta.marshaler || !meta.unmarshaler {
		t.Fatal("expected capability interfaces to be detected")
	}

	r, err := c.encode(meta, upperRecord{Word: "fish"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got, _ := r.Get("Word"); got != "FISH" {
		t.Errorf("Word = %q, want FISH", got)
	}
	if r.Type != meta.typeName {
		t.Errorf("Type = %q, want %q", r.Type, meta.typeName)
	}

	out, err := decodeAs[upperRecord](t, c, r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Word != "fish" {
		t.Errorf("Word = %q, want fish", out.Word)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"<p>a</p>", "a"},
		{"x &amp; y", "x  y"},
		{"&#39;q&#39;", "q"},
		{"a < b and c > d", "a  d"},
		{"fish & chips; yes", "fish & chips; yes"},
	}
	for _, tt := range tests {
		if got := stripHTML(tt.in); got != tt.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

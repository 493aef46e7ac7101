package store

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/chat-memory/internal/model"
)

const fixedStamp = "2024-01-01T12:00:00Z"

func testCodec(t *testing.T, f model.Format) Codec {
	t.Helper()
	c, err := NewCodec(f, func() string { return fixedStamp }, nil)
	require.NoError(t, err)
	return c
}

func keys(entries *Entries) []string {
	var out []string
	for p := entries.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

func TestNewCodec_Unsupported(t *testing.T) {
	_, err := NewCodec("yaml", nil, nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestJSONDecode_KeepsFileOrder(t *testing.T) {
	in := `{
  "城市": {"value": "北京", "timestamp": "2024-03-01T08:00:00"},
  "爱好": {"value": "跑步", "timestamp": "2024-02-01T08:00:00.123456"}
}`
	entries, err := testCodec(t, model.FormatJSON).Decode(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"城市", "爱好"}, keys(entries))
	e, ok := entries.Get("爱好")
	require.True(t, ok)
	assert.Equal(t, model.Entry{Key: "爱好", Value: "跑步", Timestamp: "2024-02-01T08:00:00.123456"}, e)
}

func TestJSONDecode_MissingTimestampIsStamped(t *testing.T) {
	entries, err := testCodec(t, model.FormatJSON).Decode(strings.NewReader(`{"a": {"value": "1"}}`))
	require.NoError(t, err)

	e, _ := entries.Get("a")
	assert.Equal(t, fixedStamp, e.Timestamp)
}

func TestJSONDecode_Malformed(t *testing.T) {
	_, err := testCodec(t, model.FormatJSON).Decode(strings.NewReader(`{"a": {"value": `))
	assert.ErrorIs(t, err, ErrParse)
}

func TestJSONEncode_Layout(t *testing.T) {
	entries := NewEntries()
	entries.Set("b", model.Entry{Key: "b", Value: "2", Timestamp: "t2"})
	entries.Set("a", model.Entry{Key: "a", Value: "1", Timestamp: "t1"})

	var buf bytes.Buffer
	require.NoError(t, testCodec(t, model.FormatJSON).Encode(&buf, entries))

	want := `{
  "b": {
    "value": "2",
    "timestamp": "t2"
  },
  "a": {
    "value": "1",
    "timestamp": "t1"
  }
}
`
	assert.Equal(t, want, buf.String())
}

func TestCSVDecode_SkipsRowWithoutValue(t *testing.T) {
	in := "key,value,timestamp\n" +
		"名字,小明,2024-01-01T00:00:00\n" +
		"孤行\n" +
		"城市,北京,2024-01-02T00:00:00\n"

	entries, err := testCodec(t, model.FormatCSV).Decode(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"名字", "城市"}, keys(entries))
	e, _ := entries.Get("城市")
	assert.Equal(t, "北京", e.Value)
	assert.Equal(t, "2024-01-02T00:00:00", e.Timestamp)
}

func TestCSVDecode_ColumnsByName(t *testing.T) {
	in := "timestamp,value,key,extra\nts,v,k,x\n"
	entries, err := testCodec(t, model.FormatCSV).Decode(strings.NewReader(in))
	require.NoError(t, err)

	e, ok := entries.Get("k")
	require.True(t, ok)
	assert.Equal(t, model.Entry{Key: "k", Value: "v", Timestamp: "ts"}, e)
}

func TestCSVDecode_MissingTimestampIsStamped(t *testing.T) {
	entries, err := testCodec(t, model.FormatCSV).Decode(strings.NewReader("key,value\na,1\nb,2,\n"))
	require.NoError(t, err)

	for p := entries.Oldest(); p != nil; p = p.Next() {
		assert.Equal(t, fixedStamp, p.Value.Timestamp, p.Key)
	}
}

func TestCSVDecode_HeaderWithoutValue(t *testing.T) {
	_, err := testCodec(t, model.FormatCSV).Decode(strings.NewReader("key,timestamp\na,t\n"))
	assert.ErrorIs(t, err, ErrParse)
}

func TestCSVDecode_Empty(t *testing.T) {
	entries, err := testCodec(t, model.FormatCSV).Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, entries.Len())
}

func TestCSV_QuotedFieldsRoundTrip(t *testing.T) {
	entries := NewEntries()
	entries.Set("地址", model.Entry{Key: "地址", Value: "上海, 浦东\n第二行 \"引号\"", Timestamp: "t"})

	c := testCodec(t, model.FormatCSV)
	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf, entries))
	assert.True(t, strings.HasPrefix(buf.String(), "key,value,timestamp\n"))

	got, err := c.Decode(&buf)
	require.NoError(t, err)
	e, _ := got.Get("地址")
	assert.Equal(t, "上海, 浦东\n第二行 \"引号\"", e.Value)
}

func TestTextDecode_FirstColonSeparates(t *testing.T) {
	in := "网站: http://example.com:8080\n\n时间:  12:30 \n"
	entries, err := testCodec(t, model.FormatText).Decode(strings.NewReader(in))
	require.NoError(t, err)

	v, _ := entries.Get("网站")
	assert.Equal(t, "http://example.com:8080", v.Value)
	v, _ = entries.Get("时间")
	assert.Equal(t, "12:30", v.Value)
	assert.Equal(t, fixedStamp, v.Timestamp)
}

func TestTextDecode_SkipsLinesWithoutSeparator(t *testing.T) {
	entries, err := testCodec(t, model.FormatText).Decode(strings.NewReader("a: 1\nnot a memory\nb: 2\r\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, keys(entries))
	v, _ := entries.Get("b")
	assert.Equal(t, "2", v.Value)
}

func TestTextEncode_FlattensNewlines(t *testing.T) {
	entries := NewEntries()
	entries.Set("a", model.Entry{Key: "a", Value: "one\ntwo"})
	entries.Set("b", model.Entry{Key: "b", Value: "x: y"})

	var buf bytes.Buffer
	require.NoError(t, testCodec(t, model.FormatText).Encode(&buf, entries))
	assert.Equal(t, "a: one two\nb: x: y\n", buf.String())
}

func TestTextEncode_FlattensNewlinesInKeys(t *testing.T) {
	entries := NewEntries()
	entries.Set("a\nb", model.Entry{Key: "a\nb", Value: "y"})

	var buf bytes.Buffer
	require.NoError(t, testCodec(t, model.FormatText).Encode(&buf, entries))
	assert.Equal(t, "a b: y\n", buf.String())
}

func TestTextEncode_RejectsColonInKey(t *testing.T) {
	entries := NewEntries()
	entries.Set("ok", model.Entry{Key: "ok", Value: "1"})
	entries.Set("url:home", model.Entry{Key: "url:home", Value: "x"})

	var buf bytes.Buffer
	err := testCodec(t, model.FormatText).Encode(&buf, entries)
	assert.ErrorIs(t, err, ErrParse)
	assert.Empty(t, buf.String())
}

package subtitle

import (
	"strings"
	"testing"

	"caption-resolver-backend/internal/models"
)

func TestRenderSRT(t *testing.T) {
	segments := []models.Segment{
		{Start: 1.5, Duration: 2.25, Text: "first"},
		{Start: 3661.007, Duration: 1, Text: "second"},
	}

	out, err := Render(segments, models.FormatSRT)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	want := "1\n00:00:01,500 --> 00:00:03,750\nfirst\n\n" +
		"2\n01:01:01,007 --> 01:01:02,007\nsecond\n\n"
	if out != want {
		t.Fatalf("unexpected srt output:\n%q\nwant:\n%q", out, want)
	}
}

func TestRenderVTT(t *testing.T) {
	segments := []models.Segment{{Start: 0, Duration: 2, Text: "hello"}}

	out, err := Render(segments, models.FormatVTT)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if !strings.HasPrefix(out, "WEBVTT\n\n") {
		t.Fatalf("vtt output missing header: %q", out)
	}
	if !strings.Contains(out, "00:00:00.000 --> 00:00:02.000\nhello\n") {
		t.Fatalf("vtt block malformed: %q", out)
	}
}

func TestRenderTXT(t *testing.T) {
	segments := []models.Segment{
		{Start: 0, Duration: 1, Text: "one"},
		{Start: 1, Duration: 1, Text: "two"},
	}

	out, err := Render(segments, models.FormatTXT)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if out != "one\ntwo" {
		t.Fatalf("unexpected txt output: %q", out)
	}
}

func TestRenderEmpty(t *testing.T) {
	for _, format := range []models.SubtitleFormat{models.FormatSRT, models.FormatVTT, models.FormatTXT} {
		out, err := Render(nil, format)
		if err != nil {
			t.Fatalf("render %s failed: %v", format, err)
		}
		if out != "" {
			t.Fatalf("expected empty %s output, got %q", format, out)
		}
	}

	out, err := Render(nil, models.FormatJSON)
	if err != nil {
		t.Fatalf("render json failed: %v", err)
	}
	if out != "[]" {
		t.Fatalf("expected empty json array, got %q", out)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	if _, err := Render(nil, models.SubtitleFormat("ass")); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.0015, "00:00:01,002"},
		{59.999, "00:00:59,999"},
		{3600, "01:00:00,000"},
		{-4.2, "00:00:00,000"},
	}
	for _, tc := range cases {
		if got := formatTimestamp(tc.seconds, ','); got != tc.want {
			t.Fatalf("formatTimestamp(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestRenderSRTTimePairProperty(t *testing.T) {
	segments := []models.Segment{{Start: 12.3456, Duration: 4.0004, Text: "x"}}

	out, err := Render(segments, models.FormatSRT)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	wantPair := formatTimestamp(12.3456, ',') + " --> " + formatTimestamp(12.3456+4.0004, ',')
	if !strings.Contains(out, wantPair) {
		t.Fatalf("expected time pair %q in output %q", wantPair, out)
	}
}

package webhook

import (
	"testing"

	"shot-history-api/internal/shot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBuildPayload_NilShot(t *testing.T) {
	_, err := BuildPayload(nil, &shot.Notes{Rating: 3})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestBuildPayload_EmptySamplesNeverNull(t *testing.T) {
	p, err := BuildPayload(&shot.Shot{ID: "x"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, p.Samples)
	assert.Nil(t, p.Notes)
}

func genNotes(t *rapid.T, label string) *shot.Notes {
	if rapid.Bool().Draw(t, label+"Present") {
		return &shot.Notes{
			Rating: rapid.IntRange(0, 5).Draw(t, label+"Rating"),
			Notes:  rapid.String().Draw(t, label+"Text"),
		}
	}
	return nil
}

func genShot(t *rapid.T) *shot.Shot {
	n := rapid.IntRange(0, 20).Draw(t, "samples")
	samples := make([]shot.Sample, n)
	for i := range samples {
		samples[i] = shot.Sample{
			T:  int64(i * 250),
			CP: rapid.Float64Range(0, 12).Draw(t, "cp"),
		}
	}
	return &shot.Shot{
		ID:         rapid.StringMatching(`[a-f0-9]{8}`).Draw(t, "id"),
		Timestamp:  rapid.Int64Range(0, 1<<40).Draw(t, "ts"),
		Profile:    rapid.String().Draw(t, "profile"),
		ProfileID:  rapid.String().Draw(t, "profileId"),
		Duration:   rapid.Int64Range(0, 120000).Draw(t, "duration"),
		Volume:     rapid.Float64Range(0, 100).Draw(t, "volume"),
		Incomplete: rapid.Bool().Draw(t, "incomplete"),
		Samples:    samples,
		Notes:      genNotes(t, "shotNotes"),
	}
}

func TestBuildPayload_NotesPrecedence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := genShot(rt)
		override := genNotes(rt, "override")

		p, err := BuildPayload(s, override)
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}

		switch {
		case override != nil:
			if p.Notes == nil || *p.Notes != *override {
				rt.Fatalf("override notes not used: %+v", p.Notes)
			}
		case s.Notes != nil:
			if p.Notes == nil || *p.Notes != *s.Notes {
				rt.Fatalf("shot notes not used: %+v", p.Notes)
			}
		default:
			if p.Notes != nil {
				rt.Fatalf("expected null notes, got %+v", p.Notes)
			}
		}

		if p.ID != s.ID || p.Timestamp != s.Timestamp || p.Duration != s.Duration ||
			p.Volume != s.Volume || p.Incomplete != s.Incomplete || len(p.Samples) != len(s.Samples) {
			rt.Fatalf("payload fields diverge from shot")
		}
	})
}

func TestBuildPayload_IsDetachedFromShot(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := genShot(rt)
		before := s.Clone()

		p, _ := BuildPayload(s, nil)
		for i := range p.Samples {
			p.Samples[i].CP = -1
		}
		if p.Notes != nil {
			p.Notes.Rating = -1
		}

		if !assert.ObjectsAreEqual(before, s) {
			rt.Fatalf("payload mutation leaked into shot")
		}
	})
}

func TestValidateURL(t *testing.T) {
	cases := map[string]bool{
		"":                         false,
		"   ":                      false,
		"ftp://x":                  false,
		"mailto:me@example.com":    false,
		"example.com/hook":         false,
		"http://":                  false,
		"://missing-scheme":        false,
		"https://example.com/hook": true,
		"http://localhost:8080/x":  true,
		"HTTPS://Example.com":      true,
		"  https://example.com  ":  true,
	}
	for in, want := range cases {
		assert.Equal(t, want, ValidateURL(in), "ValidateURL(%q)", in)
	}
}

func TestValidateURL_OnlyHTTPSchemes(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		scheme := rapid.SampledFrom([]string{"http", "https", "ftp", "ws", "file", "gopher"}).Draw(rt, "scheme")
		host := rapid.StringMatching(`[a-z]{1,12}\.(com|org|io)`).Draw(rt, "host")

		got := ValidateURL(scheme + "://" + host + "/hook")
		want := scheme == "http" || scheme == "https"
		if got != want {
			rt.Fatalf("ValidateURL(%s://%s) = %v, want %v", scheme, host, got, want)
		}
	})
}

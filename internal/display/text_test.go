package display

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestFormatPoints(t *testing.T) {
	tests := []struct {
		name   string
		points float64
		want   string
	}{
		{"integer", 25, "25"},
		{"half", 12.5, "12.5"},
		{"zero", 0, "0"},
		{"large", 437, "437"},
		{"quarter", 0.25, "0.25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qt.New(t).Assert(FormatPoints(tt.points), qt.Equals, tt.want)
		})
	}
}

func TestAlignment(t *testing.T) {
	c := qt.New(t)
	w := TextWidth(testFont, "25")
	c.Assert(w > 0, qt.IsTrue)
	c.Assert(TextWidth(testFont, "125") > w, qt.IsTrue)
	c.Assert(TextWidth(testFont, ""), qt.Equals, 0)

	c.Assert(AlignRight(testFont, "25", 64), qt.Equals, 64-w)
	c.Assert(AlignCenter(testFont, "25", 64), qt.Equals, (64-w)/2)
	c.Assert(AlignRight(testFont, "", 64), qt.Equals, 64)
}

func TestCenterY(t *testing.T) {
	c := qt.New(t)
	c.Assert(CenterY(32, 6), qt.Equals, 19)
	c.Assert(CenterY(25, 6), qt.Equals, 15)
}

func TestFontByName(t *testing.T) {
	c := qt.New(t)
	f, err := FontByName("tom-thumb")
	c.Assert(err, qt.IsNil)
	c.Assert(f, qt.Equals, testFont)

	_, err = FontByName("comic-sans")
	c.Assert(err, qt.ErrorMatches, `unknown font "comic-sans" .*`)
	c.Assert(FontNames(), qt.DeepEquals, []string{"org01", "picopixel", "tom-thumb"})
}

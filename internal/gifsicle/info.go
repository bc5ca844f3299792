package gifsicle

import (
	"regexp"
	"strconv"
	"strings"
)

// Dimensions holds a logical screen size in pixels.
type Dimensions struct {
	Width  int
	Height int
}

// Metadata is the structured form of a gifsicle --info report. Zero values
// are meaningful defaults: no frames, no delays, infinite loop, no markers.
type Metadata struct {
	FrameCount      int
	Screen          *Dimensions
	Delays          []float64 // seconds, in frame order
	LoopCount       int       // 0 = infinite
	HasComments     bool
	HasExtensions   bool
	BackgroundIndex *int
	HasTransparency bool
	ColorTableSize  int
	SizeBytes       int64
}

// Animated reports whether the source carries more than one frame.
func (m Metadata) Animated() bool {
	return m.FrameCount > 1
}

// DelayCentiseconds returns the delay for the given frame in centiseconds,
// or 0 when unknown.
func (m Metadata) DelayCentiseconds(index int) int {
	if index < 0 || index >= len(m.Delays) {
		return 0
	}
	cs := int(m.Delays[index]*100 + 0.5)
	if cs < 0 {
		return 0
	}
	return cs
}

var (
	imagesPattern     = regexp.MustCompile(`(\d+) images?\b`)
	screenPattern     = regexp.MustCompile(`logical screen (\d+)x(\d+)`)
	delayPattern      = regexp.MustCompile(`delay (\d+(?:\.\d+)?)s`)
	loopCountPattern  = regexp.MustCompile(`loop count (\d+)`)
	backgroundPattern = regexp.MustCompile(`background (\d+)`)
	colorTablePattern = regexp.MustCompile(`color table \[(\d+)\]`)
)

// ParseInfo converts --info output lines into Metadata. It is line
// oriented and tolerant: each recognized pattern updates one field,
// unrecognized lines are skipped, and nothing in the input can make it
// fail. Callers always receive a usable value.
func ParseInfo(lines []string) Metadata {
	var meta Metadata

	for _, line := range lines {
		if m := imagesPattern.FindStringSubmatch(line); m != nil && meta.FrameCount == 0 {
			if n, err := strconv.Atoi(m[1]); err == nil && n >= 0 {
				meta.FrameCount = n
			}
		}
		if m := screenPattern.FindStringSubmatch(line); m != nil && meta.Screen == nil {
			w, errW := strconv.Atoi(m[1])
			h, errH := strconv.Atoi(m[2])
			if errW == nil && errH == nil {
				meta.Screen = &Dimensions{Width: w, Height: h}
			}
		}
		if m := delayPattern.FindStringSubmatch(line); m != nil {
			if d, err := strconv.ParseFloat(m[1], 64); err == nil && d >= 0 {
				meta.Delays = append(meta.Delays, d)
			}
		}
		if m := loopCountPattern.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n >= 0 {
				meta.LoopCount = n
			}
		}
		if m := backgroundPattern.FindStringSubmatch(line); m != nil && meta.BackgroundIndex == nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n >= 0 {
				idx := n
				meta.BackgroundIndex = &idx
			}
		}
		if m := colorTablePattern.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > meta.ColorTableSize {
				meta.ColorTableSize = n
			}
		}
		if strings.Contains(line, "transparent") {
			meta.HasTransparency = true
		}
		if strings.Contains(line, "comment") {
			meta.HasComments = true
		}
		if strings.Contains(line, "extension") {
			meta.HasExtensions = true
		}
	}

	// A delay list that disagrees with the frame count is worse than no
	// delay list at all; downstream consumers rely on index alignment.
	if len(meta.Delays) > 0 && len(meta.Delays) != meta.FrameCount {
		meta.Delays = nil
	}

	return meta
}

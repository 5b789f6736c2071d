package render

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/lifereel/board"
	"github.com/matt-g-everett/lifereel/util"
)

// Shader picks the marker colour of each live cell. Cells that survive
// across consecutive frames can be blended towards an aged colour.
type Shader struct {
	fore colorful.Color
	aged colorful.Color
	lut  []float64
	ages map[board.Point]int
}

// NewShader creates a Shader. With ageFrames == 0 every cell gets fore.
func NewShader(fore, aged colorful.Color, ageFrames int) *Shader {
	s := new(Shader)
	s.fore = fore
	s.aged = aged
	if ageFrames > 0 {
		s.lut = util.RampLut(ageFrames + 1)
	}
	s.ages = make(map[board.Point]int)
	return s
}

// Advance records the cells of the frame about to be drawn. Only the
// previous frame is remembered.
func (s *Shader) Advance(f board.Frame) {
	if s.lut == nil {
		return
	}

	ages := make(map[board.Point]int, len(f.Cells))
	for _, p := range f.Cells {
		if _, seen := ages[p]; seen {
			continue
		}
		if age, alive := s.ages[p]; alive {
			ages[p] = age + 1
		} else {
			ages[p] = 0
		}
	}
	s.ages = ages
}

// Colour returns the colour for a cell of the current frame.
func (s *Shader) Colour(p board.Point) colorful.Color {
	if s.lut == nil {
		return s.fore
	}

	age := s.ages[p]
	if age >= len(s.lut) {
		age = len(s.lut) - 1
	}
	return s.fore.BlendHcl(s.aged, s.lut[age]).Clamped()
}

package gesture

// Hand landmark indices in the 21-point hand model.
const (
	Wrist     = 0
	MiddleMCP = 9
	Landmarks = 21
)

// fingertip / PIP joint pairs for index, middle, ring and pinky.
var fingers = [4][2]int{
	{8, 6},
	{12, 10},
	{16, 14},
	{20, 18},
}

// Classify reads a raw gesture from 21 normalized hand landmarks. A finger
// counts as curled when its tip sits below its PIP joint (image y grows
// downward). A closed fist attracts, an open palm pushes, anything in
// between is None. Short input yields None.
func Classify(lm []Point) Gesture {
	if len(lm) < Landmarks {
		return None
	}
	curled := 0
	for _, f := range fingers {
		if lm[f[0]].Y > lm[f[1]].Y {
			curled++
		}
	}
	switch curled {
	case len(fingers):
		return Attract
	case 0:
		return Push
	}
	return None
}

// PalmCenter is the midpoint between the wrist and the middle finger MCP.
// Short input yields the zero point and false.
func PalmCenter(lm []Point) (Point, bool) {
	if len(lm) < Landmarks {
		return Point{}, false
	}
	w, m := lm[Wrist], lm[MiddleMCP]
	return Point{X: (w.X + m.X) / 2, Y: (w.Y + m.Y) / 2}, true
}
